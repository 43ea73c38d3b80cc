package codegen

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/dave/jennifer/jen"
)

// GenerateBundle produces Go source for package pkg that embeds a
// translation. The file exports Source, the translated text, ContentHash,
// its hex sha256, and Lines, which splits Source on newlines. name is the
// input file the translation came from and only appears in the header.
func GenerateBundle(pkg, name string, result *Result) (string, error) {
	sum := sha256.Sum256([]byte(result.Code))

	f := jen.NewFile(pkg)
	f.HeaderComment(fmt.Sprintf("Code generated by clove from %s. DO NOT EDIT.", name))

	f.Comment("Source is the translated program.")
	f.Const().Id("Source").Op("=").Lit(result.Code)
	f.Line()

	f.Comment("ContentHash is the hex-encoded sha256 of Source.")
	f.Const().Id("ContentHash").Op("=").Lit(hex.EncodeToString(sum[:]))
	f.Line()

	f.Comment("Lines returns Source split into lines.")
	f.Func().Id("Lines").Params().Index().String().Block(
		jen.Return(jen.Qual("strings", "Split").Call(jen.Id("Source"), jen.Lit("\n"))),
	)

	buf := &bytes.Buffer{}
	if err := f.Render(buf); err != nil {
		return "", fmt.Errorf("failed to render bundle: %w", err)
	}
	return buf.String(), nil
}

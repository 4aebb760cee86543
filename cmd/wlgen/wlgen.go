// Command wlgen reads a Wayland protocol XML definition and prints the
// skeleton of the Go source the client package's per-interface files
// are hand-maintained equivalents of: one struct per interface, with
// a callback field per event and a method per request (the other way
// round with -client=false), typed according to the argument kinds
// the XML declares.
//
// It does not touch the committed client package; running it against
// wayland.xml is a way to check a hand-written interface file against
// what the generator would propose, not to overwrite it.
package main

import (
	"encoding/xml"
	"flag"
	"fmt"
	"log"
	"os"
	"text/template"

	"github.com/kestrelwl/wl/protocol"
)

// Import names a foreign interface prefix that should resolve to a
// package-qualified identifier rather than a local one, for protocols
// that reference types from another XML file (wl_surface's use of
// wl_buffer, for example, when generating one interface at a time).
type Import struct {
	Prefix string
	Name   string
}

// Config controls how Context.ident resolves XML interface and
// argument names to Go identifiers.
type Config struct {
	Prefix  string
	Imports []Import
}

// Context is the value the generator template executes against. Its
// methods, defined in funcs.go, do the XML-name-to-Go-identifier and
// argument-classification work the template itself stays free of.
type Context struct {
	Config  Config
	Package string
	IsClient bool
	T       *template.Template
}

func loadXML(path string) (proto protocol.Protocol, err error) {
	file, err := os.Open(path)
	if err != nil {
		return proto, err
	}
	defer file.Close()

	d := xml.NewDecoder(file)
	err = d.Decode(&proto)
	return proto, err
}

const skeletonTemplate = `// Code generated by wlgen. Review before committing.
package {{.Package}}

{{range .Proto.Interfaces}}
// {{$.Ctx.export .Name}} corresponds to {{.Name}} v{{.Version}}.
type {{$.Ctx.export .Name}} struct {
{{- range $.Ctx.listeners .}}
	{{$.Ctx.export .Name}} func({{range $i, $a := $.Ctx.args .}}{{if $i}}, {{end}}{{$.Ctx.unkeyword $a.Name}} {{$.Ctx.goTypeOrPanic $a}}{{end}})
{{- end}}
}

{{range $.Ctx.senders .}}
func (o *{{$.Ctx.export $.CurInterface}}) {{$.Ctx.export .Name}}({{range $i, $a := $.Ctx.args .}}{{if $i}}, {{end}}{{$.Ctx.unkeyword $a.Name}} {{$.Ctx.goTypeOrPanic $a}}{{end}}) {
	// {{$.Ctx.comment .Description.Summary}}
}
{{end}}
{{end}}
`

func generate(ctx Context, proto protocol.Protocol, out *os.File) error {
	type ifaceScope struct {
		Ctx          Context
		Package      string
		Proto        protocol.Protocol
		CurInterface string
	}

	for _, iface := range proto.Interfaces {
		scope := ifaceScope{Ctx: ctx, Package: ctx.Package, Proto: protocol.Protocol{Interfaces: []protocol.Interface{iface}}, CurInterface: iface.Name}
		if err := ctx.T.Execute(out, scope); err != nil {
			return fmt.Errorf("execute template for %s: %w", iface.Name, err)
		}
	}
	return nil
}

func newTemplate(ctx Context) (*template.Template, error) {
	return template.New("wlgen").Funcs(template.FuncMap{
		"ident":   ctx.ident,
		"camel":   ctx.camel,
		"snake":   ctx.snake,
		"export":  ctx.export,
		"unexport": ctx.unexport,
		"unkeyword": ctx.unkeyword,
		"comment": ctx.comment,
		"listeners": ctx.listeners,
		"senders": ctx.senders,
		"args":    ctx.args,
		"returns": ctx.returns,
		"goTypeOrPanic": func(arg protocol.Arg) string {
			t, err := ctx.goType(arg)
			if err != nil {
				return "any"
			}
			return t
		},
	}).Parse(skeletonTemplate)
}

func main() {
	xmlfile := flag.String("xml", "", "protocol XML file")
	pkg := flag.String("pkg", "wl", "output package name")
	prefix := flag.String("prefix", "wl_", "interface prefix name to strip")
	isClient := flag.Bool("client", true, "generate the client-side skeleton (requests as methods, events as fields)")
	flag.Parse()

	if *xmlfile == "" {
		log.Fatal("-xml is required")
	}

	proto, err := loadXML(*xmlfile)
	if err != nil {
		log.Fatalf("load XML: %v", err)
	}

	ctx := Context{
		Config:   Config{Prefix: *prefix},
		Package:  *pkg,
		IsClient: *isClient,
	}
	t, err := newTemplate(ctx)
	if err != nil {
		log.Fatalf("parse template: %v", err)
	}
	ctx.T = t

	if err := generate(ctx, proto, os.Stdout); err != nil {
		log.Fatalf("generate: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/typelens/typelens"
	"github.com/typelens/typelens/gen"
	"github.com/typelens/typelens/metadata"
	"github.com/typelens/typelens/provider"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Dump    DumpCmd    `cmd:"" help:"Resolve and print the member view of a type."`
	Gen     GenCmd     `cmd:"" help:"Generate Go struct stubs for resolved member views."`
	Serve   ServeCmd   `cmd:"" help:"Serve member views over HTTP."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

// InputFlags selects the catalog source shared by every inspecting command.
type InputFlags struct {
	Catalog   string   `help:"JSON catalog document." type:"existingfile"`
	Pkg       []string `help:"Go package pattern to load (repeatable)."`
	WinMD     string   `help:"Windows Metadata (.winmd) file." type:"existingfile"`
	Namespace []string `help:"Restrict winmd extraction to these namespaces."`
}

func (f *InputFlags) load(ctx context.Context) (*provider.Result, error) {
	sources := 0
	if f.Catalog != "" {
		sources++
	}
	if len(f.Pkg) > 0 {
		sources++
	}
	if f.WinMD != "" {
		sources++
	}
	if sources != 1 {
		return nil, fmt.Errorf("exactly one of --catalog, --pkg or --win-md is required")
	}
	switch {
	case f.Catalog != "":
		return provider.LoadCatalogFile(f.Catalog)
	case len(f.Pkg) > 0:
		return provider.BuildFromSource(ctx, provider.SourceOptions{Packages: f.Pkg})
	default:
		return provider.BuildFromWinMD(provider.WinMDOptions{Path: f.WinMD, Namespaces: f.Namespace})
	}
}

type DumpCmd struct {
	InputFlags

	Type     string `arg:"" help:"Full name of the runtime type."`
	Declared string `help:"Full name of the declared type; defaults to the runtime type."`
	OwnOnly  bool   `help:"Only the runtime type's own members, no base chain."`
	Hide     bool   `help:"Mark non-public members of modules without symbols." name:"hide-non-public"`
	Proxy    bool   `help:"Resolve the display proxy before collecting."`
	Attrs    bool   `help:"Also print discovered attributes and visualizers."`
}

func (c *DumpCmd) Run() error {
	res, err := c.load(context.Background())
	if err != nil {
		return err
	}
	t, ok := res.Lookup(c.Type)
	if !ok {
		return fmt.Errorf("unknown type %q", c.Type)
	}
	declared := t
	if c.Declared != "" {
		if declared, ok = res.Lookup(c.Declared); !ok {
			return fmt.Errorf("unknown declared type %q", c.Declared)
		}
	}

	in := res.Inspector()
	if c.Proxy {
		if proxy, found := in.ResolveProxyType(t); found {
			fmt.Printf("proxy: %s\n", proxy.FullName())
			t, declared = proxy, proxy
		}
	}

	rows := in.CollectMembers(t, declared, typelens.IsDisplayable, typelens.CollectOptions{
		IncludeInherited:            !c.OwnOnly,
		HideNonPublicWithoutSymbols: c.Hide,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tACCESS\tDECLARED ON\tDEPTH\tFLAGS\tBROWSABLE")
	for _, row := range rows {
		browsable := "-"
		if row.BrowsableState != nil {
			browsable = row.BrowsableState.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			row.DisplayName(),
			row.Member.Kind(),
			row.Member.Access(),
			row.Member.DeclaringType().FullName(),
			row.InheritanceDepth,
			row.Flags,
			browsable,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if c.Attrs {
		printAttrs(in, t)
	}
	return nil
}

func printAttrs(in *typelens.Inspector, t *metadata.Type) {
	if disp, target, ok := in.FindDisplayAttribute(t); ok {
		fmt.Printf("display: %q (on %s)\n", disp.Value, target.FullName())
	}
	for _, v := range in.FindVisualizers(t) {
		fmt.Printf("visualizer %d: %s (%s)\n", v.Index, v.Description, v.HostViewer)
	}
}

type GenCmd struct {
	InputFlags

	Types         []string `arg:"" help:"Full names of the types to render."`
	Out           string   `help:"Output file; defaults to stdout." type:"path"`
	Package       string   `help:"Generated package name." default:"stubs"`
	IncludeHidden bool     `help:"Keep members the display layer would suppress."`
	Proxies       bool     `help:"Render proxy views where a proxy attribute applies."`
}

func (c *GenCmd) Run() error {
	res, err := c.load(context.Background())
	if err != nil {
		return err
	}
	types := make([]*metadata.Type, 0, len(c.Types))
	for _, name := range c.Types {
		t, ok := res.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown type %q", name)
		}
		types = append(types, t)
	}

	src, err := gen.Render(res.Inspector(), types, gen.Options{
		PackageName:    c.Package,
		IncludeHidden:  c.IncludeHidden,
		ResolveProxies: c.Proxies,
	})
	if err != nil {
		return err
	}
	if c.Out == "" {
		fmt.Print(src)
		return nil
	}
	return os.WriteFile(c.Out, []byte(src), 0o644)
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("typelens"),
		kong.Description("Inspect type hierarchies and resolve the member views a debugger would display."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jeongminsang/stylex/compiler"
	"github.com/jeongminsang/stylex/hash"
)

const buttonModule = `import * as stylex from '@stylexjs/stylex';

export const styles = stylex.create({
  base: { color: brand ?? "red", ":hover": { color: "blue" } },
  size: (w) => ({ width: w }),
});
`

func compileCommand(files ...string) *Compile {
	return &Compile{Files: files, Format: formatJSON, Prefix: "x"}
}

type report []struct {
	Source      string `json:"source"`
	Definitions []struct {
		Name       string                         `json:"name"`
		Namespaces map[string]map[string]any      `json:"namespaces"`
		ClassPaths map[string]map[string][]string `json:"classPaths"`
	} `json:"definitions"`
	Injected map[string]struct {
		LTR      string  `json:"ltr"`
		Priority float64 `json:"priority"`
	} `json:"injected"`
}

func TestCompile_Run(t *testing.T) {
	path := writeModule(t, t.TempDir(), "button.js", strings.Replace(buttonModule, "brand ?? ", "", 1))

	ctx, out := runContext(t, nil)
	if err := compileCommand(path, path).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got report
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	if len(got) != 1 || got[0].Source != path || len(got[0].Definitions) != 1 {
		t.Fatalf("report = %+v, want one module with one definition", got)
	}

	base := got[0].Definitions[0].Namespaces["base"]

	red := "x" + hash.String("<>colorred")
	if base["color"] != red || base["$$css"] != true {
		t.Errorf("base = %v, want color %s", base, red)
	}

	if s := got[0].Injected[red]; s.LTR != "."+red+"{color:red}" || s.Priority != 3000 {
		t.Errorf("injected[%s] = %+v", red, s)
	}

	if !strings.Contains(out.String(), `"$$css": true`) {
		t.Errorf("output does not mark compiled namespaces:\n%s", out)
	}
}

func TestCompile_CSS(t *testing.T) {
	dir := t.TempDir()
	a := writeModule(t, dir, "a.js", `const a = create({ n: { color: "red", marginStart: "4px" } });`)
	b := writeModule(t, dir, "b.js", `const b = create({ n: { color: "red" } });`)

	c := compileCommand(a, b)
	c.CSS = true

	ctx, out := runContext(t, nil)
	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	red := "x" + hash.String("<>colorred")
	if n := strings.Count(out.String(), "."+red+"{"); n != 1 {
		t.Errorf("rule %s printed %d times:\n%s", red, n, out)
	}

	if !strings.Contains(out.String(), `html[dir="rtl"] .`) {
		t.Errorf("stylesheet has no right-to-left rule:\n%s", out)
	}
}

func TestCompile_Stdin(t *testing.T) {
	old := stdin
	stdin = strings.NewReader(buttonModule)

	t.Cleanup(func() { stdin = old })

	c := compileCommand(stdinSource)
	c.MinifyKeys = true
	c.Define = map[string]string{"brand": "green"}

	ctx, out := runContext(t, nil)
	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got report
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	if len(got) != 1 || got[0].Source != stdinName {
		t.Fatalf("report = %+v, want one module from stdin", got)
	}

	key := "k" + hash.Short("<>color")
	if v := got[0].Definitions[0].Namespaces["base"][key]; v != "x"+hash.String("<>colorgreen") {
		t.Errorf("base.%s = %v", key, v)
	}
}

func TestCompile_Errors(t *testing.T) {
	dir := t.TempDir()
	deferred := writeModule(t, dir, "d.js", "const s = create({\n  a: { color: runtime },\n});")

	ctx, out := runContext(t, nil)

	err := compileCommand(deferred).Run(ctx)
	if !errors.Is(err, compiler.ErrDeferred) {
		t.Errorf("Run() error = %v, want ErrDeferred", err)
	}

	c := compileCommand(writeModule(t, dir, "ok.js", `const s = create({ a: { color: "red" } });`))
	c.Format = "toml"

	if err := c.Run(ctx); err == nil {
		t.Error("Run() with unknown format succeeded")
	}

	if out.Len() != 0 {
		t.Errorf("failed runs wrote output:\n%s", out)
	}
}

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bjaus/multihead"
)

const orderRecords = `[
  {"name":"Ann","addr":{"city":"Oslo","zip":"0150"},"tags":["a","b"]},
  {"name":"Bo","addr":{"city":"Rome","zip":"00100"},"tags":["c"]}
]`

const flatRecords = `{"name":"Ann","addr":{"city":"Oslo","zip":"0150"}}
{"name":"Bo","addr":{"city":"Rome","zip":"00100"}}
`

type result struct {
	out    string
	errOut string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	c := New(&out, &errOut, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&errOut)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		"info at info level":   {level: LogInfo, logFunc: func(l *log.Logger) { l.Info("test") }, wantLog: true},
		"debug at info level":  {level: LogInfo, logFunc: func(l *log.Logger) { l.Debug("test") }},
		"debug at debug level": {level: LogDebug, logFunc: func(l *log.Logger) { l.Debug("test") }, wantLog: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			assert.Equal(t, tt.wantLog, buf.Len() > 0)
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	t.Parallel()
	var errOut bytes.Buffer
	c := New(&bytes.Buffer{}, &errOut, LogInfo)
	newProgress(c.Logger).done("quiet")
	assert.Empty(t, errOut.String())

	c.SetLogLevel(LogDebug)
	newProgress(c.Logger).done("Rendered 3 records")
	assert.Contains(t, errOut.String(), "Rendered 3 records (")
}

func TestRenderCSV(t *testing.T) {
	t.Parallel()
	res := execute(t, orderRecords, "render", "-f", "csv", "--discover-keys")
	require.NoError(t, res.err)

	want := "name,addr,,tags,,\n" +
		",city,zip,a,b,c\n" +
		"Ann,Oslo,0150,a,b,\n" +
		"Bo,Rome,00100,,,c\n"
	assert.Equal(t, want, res.out)
	assert.Empty(t, res.errOut)
}

func TestRenderNeedsKeys(t *testing.T) {
	t.Parallel()
	res := execute(t, orderRecords, "render", "-f", "csv")
	var cfgErr *multihead.ConfigError
	require.ErrorAs(t, res.err, &cfgErr)
	assert.Equal(t, "tags", cfgErr.Path)
	assert.Empty(t, res.out)
}

func TestRenderWithConfig(t *testing.T) {
	t.Parallel()
	cfg := writeFile(t, "report.toml", `
format = "markdown"

[[column]]
path = "addr"
ignore = true

[[column]]
path = "tags"
display_name = "Tags"
keys = ["a", "b", "c"]
`)
	in := writeFile(t, "orders.json", orderRecords)

	res := execute(t, "", "render", in, "-c", cfg, "--format", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "name,Tags,,\n,a,b,c\nAnn,a,b,\nBo,,,c\n", res.out)
}

func TestRenderWithConfigDiscoverKeys(t *testing.T) {
	t.Parallel()
	cfg := writeFile(t, "report.toml", `
[[column]]
path = "addr"
ignore = true

[[column]]
path = "tags"
display_name = "Tags"
`)
	in := writeFile(t, "orders.json", orderRecords)

	res := execute(t, "", "render", in, "-c", cfg, "-f", "csv", "--discover-keys")
	require.NoError(t, res.err)
	assert.Equal(t, "name,Tags,,\n,a,b,c\nAnn,a,b,\nBo,,,c\n", res.out)
}

func TestStyleHeaderCell(t *testing.T) {
	t.Parallel()
	assert.Contains(t, styleHeaderCell("Name"), "Name")
}

func TestRenderToFile(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "orders.csv")
	res := execute(t, flatRecords, "render", "-f", "csv", "-o", out)
	require.NoError(t, res.err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "name,addr,\n,city,zip\nAnn,Oslo,0150\nBo,Rome,00100\n", string(data))
	assert.Empty(t, res.out)
	assert.Contains(t, res.errOut, "Rendered 2 records")
	assert.Contains(t, res.errOut, out)
}

func TestRenderWorkbook(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "orders.xlsx")
	res := execute(t, flatRecords, "render", "-o", out, "--sheet", "Orders", "--at", "B2")
	require.NoError(t, res.err)
	assert.Contains(t, res.errOut, "Rendered 2 records")

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{"Orders"}, f.GetSheetList())
	for cell, want := range map[string]string{"B2": "name", "C2": "addr", "D3": "zip", "B4": "Ann", "C5": "Rome"} {
		got, err := f.GetCellValue("Orders", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		stdin string
		args  []string
	}{
		"no records":       {stdin: "", args: []string{"render"}},
		"missing input":    {args: []string{"render", "does-not-exist.json"}},
		"unknown format":   {stdin: flatRecords, args: []string{"render", "-f", "pdf"}},
		"missing config":   {stdin: flatRecords, args: []string{"render", "-c", "nope.toml"}},
		"bad start cell":   {stdin: flatRecords, args: []string{"render", "--at", "A0"}},
		"too many inputs":  {args: []string{"render", "a.json", "b.json"}},
		"not json objects": {stdin: "[1,2]", args: []string{"render"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			res := execute(t, tt.stdin, tt.args...)
			assert.Error(t, res.err)
		})
	}
}

func TestLayoutCommand(t *testing.T) {
	t.Parallel()
	res := execute(t, flatRecords, "layout", "-f", "csv")
	require.NoError(t, res.err)

	want := "Path,Header,Category,Row,Column,Span,Order,Keys\n" +
		"name,name,scalar,1,1,1,1,\n" +
		"addr,addr,record,1,2,2,2,\n" +
		"addr.city,city,scalar,2,2,1,1,\n" +
		"addr.zip,zip,scalar,2,3,1,2,\n"
	assert.Equal(t, want, res.out)
}

func TestLayoutCommandKeys(t *testing.T) {
	t.Parallel()
	cfg := writeFile(t, "report.yaml", "start: C5\ncolumn:\n  - path: tags\n    keys: [a, b]\n  - path: addr\n    ignore: true\n")
	res := execute(t, `{"name":"Ann","addr":{"city":"Oslo"},"tags":["a"]}`, "layout", "-c", cfg, "-f", "csv")
	require.NoError(t, res.err)

	want := "Path,Header,Category,Row,Column,Span,Order,Keys\n" +
		"name,name,scalar,5,3,1,1,\n" +
		"tags,tags,multi-value,5,4,2,2,\"a, b\"\n"
	assert.Equal(t, want, res.out)
}

func TestFormatsCommand(t *testing.T) {
	t.Parallel()
	res := execute(t, "", "formats")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.out), "\n")
	for _, f := range multihead.Formats() {
		assert.Contains(t, lines, string(f))
	}
	assert.Contains(t, lines, "go-template=<template>")
	assert.Contains(t, res.out, ".xlsx")
}

func TestVersion(t *testing.T) {
	t.Parallel()
	res := execute(t, "", "--version")
	require.NoError(t, res.err)
	assert.Contains(t, res.errOut, Version)
}

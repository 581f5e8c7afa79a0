package docs_test

import (
	"bytes"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/etnz/profiles/cmd"
	"github.com/etnz/profiles/devserver"
	"github.com/etnz/profiles/docs"
)

// checkInfo marks the fenced blocks run by the tests. They must exit 0.
const checkInfo = "bash check"

// pages are the markdown pages whose examples are checked.
func pages(t *testing.T) []string {
	t.Helper()
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	return append(files, "../README.md")
}

// block is a fenced code block of a page.
type block struct {
	info string
	code string
	line int
}

func parse(t *testing.T, file string) (ast.Node, []byte) {
	t.Helper()
	source, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	return goldmark.DefaultParser().Parse(text.NewReader(source)), source
}

func codeBlocks(t *testing.T, file string) []block {
	t.Helper()
	root, source := parse(t, file)
	var blocks []block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		var b block
		if fcb.Info != nil {
			b.info = strings.TrimSpace(string(fcb.Info.Segment.Value(source)))
		}
		lines := fcb.Lines()
		var code strings.Builder
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			if i == 0 {
				b.line = bytes.Count(source[:seg.Start], []byte("\n"))
			}
			code.Write(seg.Value(source))
		}
		b.code = code.String()
		blocks = append(blocks, b)
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// indexedTopics returns the topic names of the bullet list of the index,
// written as "* name: description".
func indexedTopics(t *testing.T) []string {
	t.Helper()
	root, source := parse(t, docs.Index+".md")
	var topics []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		item, ok := n.(*ast.ListItem)
		if !entering || !ok || item.FirstChild() == nil {
			return ast.WalkContinue, nil
		}
		lines := item.FirstChild().Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		seg := lines.At(0)
		if name, _, found := strings.Cut(string(seg.Value(source)), ":"); found {
			topics = append(topics, strings.TrimSpace(name))
		}
		return ast.WalkSkipChildren, nil
	})
	return topics
}

func TestIndex(t *testing.T) {
	indexed := indexedTopics(t)
	all, err := docs.GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(indexed)
	if !slices.Equal(indexed, all) {
		t.Errorf("index lists %v, embedded topics are %v", indexed, all)
	}
	for _, topic := range indexed {
		if _, err := docs.GetTopic(topic); err != nil {
			t.Errorf("GetTopic(%q): %v", topic, err)
		}
	}
	if _, err := docs.GetTopic("nope"); err == nil || !strings.Contains(err.Error(), "available topics") {
		t.Errorf("GetTopic(nope) = %v, want the list of available topics", err)
	}
}

// Every command is shown in use somewhere in the documentation.
func TestCommandsDocumented(t *testing.T) {
	var examples strings.Builder
	for _, file := range pages(t) {
		for _, b := range codeBlocks(t, file) {
			examples.WriteString(b.code)
		}
	}
	for _, c := range cmd.Commands {
		if !strings.Contains(examples.String(), "cpc "+c.Name()) {
			t.Errorf("no documented example of %q", "cpc "+c.Name())
		}
	}
}

// buildCpc builds the console in dir and returns the directory to add to
// the PATH.
func buildCpc(t *testing.T, dir string) string {
	t.Helper()
	out, err := exec.Command("go", "build", "-o", filepath.Join(dir, "cpc"), "../cpc/").CombinedOutput()
	if err != nil {
		t.Fatalf("cannot build cpc: %v\n%s", err, out)
	}
	return dir
}

// serve starts a seeded development server and returns its API base.
func serve(t *testing.T) string {
	t.Helper()
	cfg := devserver.DefaultConfig()
	cfg.Seed = true
	s, err := devserver.New(cfg, devserver.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		srv.Close()
		s.Close()
	})
	return srv.URL + cfg.Prefix
}

// TestCheckBlocks runs the check blocks of every page against a fresh
// seeded server.
func TestCheckBlocks(t *testing.T) {
	if testing.Short() {
		t.Skip("builds cpc")
	}
	bin := buildCpc(t, t.TempDir())
	path := bin + string(os.PathListSeparator) + os.Getenv("PATH")

	for _, file := range pages(t) {
		var checks []block
		for _, b := range codeBlocks(t, file) {
			if b.info == checkInfo {
				checks = append(checks, b)
			}
		}
		if len(checks) == 0 {
			continue
		}
		t.Run(filepath.Base(file), func(t *testing.T) {
			env := append(os.Environ(), "PATH="+path, cmd.EnvAPIBase+"="+serve(t))
			// No .env file of the developer leaks into the checks.
			dir := t.TempDir()
			for _, b := range checks {
				sh := exec.Command("bash", "-c", "set -e\n"+b.code)
				sh.Dir, sh.Env = dir, env
				if out, err := sh.CombinedOutput(); err != nil {
					t.Errorf("%s:%d: %v\n%s\n%s", file, b.line, err, b.code, out)
				}
			}
		})
	}
}

package pipeline_test

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/sharpts/sharpts/internal/pipeline"
)

func runSource(t *testing.T, src string, opts pipeline.Options) string {
	t.Helper()
	var buf bytes.Buffer
	it := pipeline.NewInterpreter(&buf)
	if _, err := pipeline.Run(it, src, "<test>", opts); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return buf.String()
}

// TestPipelineFixtures runs a handful of representative programs through
// the full lex-parse-check-interpret pipeline and snapshots their stdout,
// catching regressions in how the phases compose without pinning down
// every intermediate value by hand.
func TestPipelineFixtures(t *testing.T) {
	fixtures := []struct {
		name string
		src  string
	}{
		{
			name: "arithmetic",
			src:  `console.log(1 + 2 * 3);`,
		},
		{
			name: "closures",
			src: `
function counter() {
  let n = 0;
  return () => { n += 1; return n; };
}
const c = counter();
console.log(c());
console.log(c());
`,
		},
		{
			name: "classes",
			src: `
class Point {
  constructor(public x: number, public y: number) {}
  toString(): string { return "(" + this.x + ", " + this.y + ")"; }
}
console.log(new Point(1, 2).toString());
`,
		},
		{
			name: "array-methods",
			src: `
const doubled = [1, 2, 3].map(n => n * 2).filter(n => n > 2);
console.log(doubled.join(","));
`,
		},
	}

	for _, f := range fixtures {
		f := f
		t.Run(f.name, func(t *testing.T) {
			t.Parallel()
			snaps.MatchSnapshot(t, runSource(t, f.src, pipeline.Options{}))
		})
	}
}

// TestPipelineCompiledMatchesTree runs the same fixtures through the
// bytecode VM and checks its output matches the tree-walking interpreter's,
// since both are supposed to implement identical semantics for the
// subset that compiles.
func TestPipelineCompiledMatchesTree(t *testing.T) {
	src := `
function add(a: number, b: number): number { return a + b; }
console.log(add(2, 3));
const xs = [1, 2, 3];
let total = 0;
for (const x of xs) { total += x; }
console.log(total);
`
	tree := runSource(t, src, pipeline.Options{})
	compiled := runSource(t, src, pipeline.Options{Compiled: true})
	if tree != compiled {
		t.Fatalf("tree-walked output %q != compiled output %q", tree, compiled)
	}
}

package emitter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-sourcemap/sourcemap"

	"github.com/sharpts/sharpts/internal/ir"
)

// SourceMap is a Source Map v3 document (https://sourcemaps.info/spec.html)
// mapping each line of a compiled chunk's disassembly back to the source
// line that emitted it, so `sharpts build --source-map`'s bytecode dump can
// be traced back to the TypeScript that produced it the way a transpiled
// .js.map traces back to its .ts.
type SourceMap struct {
	Version  int      `json:"version"`
	File     string   `json:"file"`
	Sources  []string `json:"sources"`
	Names    []string `json:"names"`
	Mappings string   `json:"mappings"`
}

// GenerateSourceMap builds a source map for chunk's Disassemble() output.
// Disassemble prints one "== name ==" header line followed by one line per
// instruction, so disassembly line i+1 (0-indexed, header is line 0) maps
// to the source line chunk.Lines records for instruction i.
func GenerateSourceMap(chunk *ir.Chunk, sourceFile, outFile string) *SourceMap {
	var segments []string
	prevSrcLine := 0
	lineIdx := 0

	lineFor := func(instr int) int {
		for lineIdx+1 < len(chunk.Lines) && chunk.Lines[lineIdx+1].InstructionOffset <= instr {
			lineIdx++
		}
		if len(chunk.Lines) == 0 {
			return 1
		}
		return chunk.Lines[lineIdx].Line
	}

	// Line 0 (the header) carries no mapping.
	segments = append(segments, "")

	for i := range chunk.Code {
		srcLine := lineFor(i) - 1
		if srcLine < 0 {
			srcLine = 0
		}
		delta := srcLine - prevSrcLine
		prevSrcLine = srcLine
		// [genColumn=0, sourceIndex delta=0 (there's only ever one source),
		// sourceLine delta, sourceColumn delta=0 (no column info tracked)]
		segments = append(segments, encodeVLQ(0)+encodeVLQ(0)+encodeVLQ(delta)+encodeVLQ(0))
	}

	return &SourceMap{
		Version:  3,
		File:     outFile,
		Sources:  []string{sourceFile},
		Names:    []string{},
		Mappings: strings.Join(segments, ";"),
	}
}

// JSON serializes m to the wire format consumers (debuggers, and
// `sharpts build`'s own ResolveLine round-trip check) expect.
func (m *SourceMap) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// ResolveLine loads a source map sharpts build just wrote and resolves
// disassembly line genLine back to its original source line, confirming
// the map round-trips through the same library a debugger would use to
// read it.
func ResolveLine(data []byte, genLine int) (int, error) {
	consumer, err := sourcemap.Parse("", data)
	if err != nil {
		return 0, fmt.Errorf("sourcemap: %w", err)
	}
	_, _, line, _, ok := consumer.Source(genLine, 0)
	if !ok {
		return 0, fmt.Errorf("sourcemap: no mapping for line %d", genLine)
	}
	return line + 1, nil
}

const vlqBase64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeVLQ base64-VLQ-encodes a single signed value per the Source Map v3
// spec: the sign occupies the low bit, five payload bits per digit, a
// continuation bit in the high position of every digit but the last.
func encodeVLQ(value int) string {
	var vlq int
	if value < 0 {
		vlq = ((-value) << 1) | 1
	} else {
		vlq = value << 1
	}

	var b strings.Builder
	for {
		digit := vlq & 0x1f
		vlq >>= 5
		if vlq > 0 {
			digit |= 0x20
		}
		b.WriteByte(vlqBase64Chars[digit])
		if vlq == 0 {
			break
		}
	}
	return b.String()
}

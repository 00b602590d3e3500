package bytecode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/tqscript/tqscript/internal/value"
)

// Disassemble renders cb as plain-text listing: one line per instruction,
// the top-level sequence first, then each declared function. This backs
// the CLI's `tqscript disasm` (default, human-readable) output.
func Disassemble(cb *CodeBlock) string {
	var sb strings.Builder
	sb.WriteString("; top-level\n")
	writeSequence(&sb, cb.Code)
	for i, fn := range cb.Functions {
		name := fn.Name
		if fn.Namespace != "" {
			name = fn.Namespace + "::" + name
		}
		if fn.Package != "" {
			name = fn.Package + "::" + name
		}
		fmt.Fprintf(&sb, "\n; function[%d] %s(%s)\n", i, name, strings.Join(fn.Params, ", "))
		writeSequence(&sb, fn.Body)
	}
	return sb.String()
}

func writeSequence(sb *strings.Builder, seq InstructionSequence) {
	for i, instr := range seq {
		fmt.Fprintf(sb, "%4d  %-24s", i, instr.Op.String())
		for _, op := range instr.Operands {
			if s := formatOperand(op); s != "" {
				sb.WriteString(" ")
				sb.WriteString(s)
			}
		}
		sb.WriteString("\n")
	}
}

func formatOperand(v value.Value) string {
	switch v.Kind() {
	case value.KindInteger:
		return strconv.FormatInt(int64(v.ToInteger()), 10)
	case value.KindFloat:
		return strconv.FormatFloat(float64(v.ToFloat()), 'g', -1, 32)
	case value.KindString:
		return strconv.Quote(v.ToString())
	default:
		return ""
	}
}

// yamlInstruction/yamlFunction/yamlCodeBlock are the structured-dump shapes
// behind `tqscript disasm --format=yaml`, per SPEC_FULL.md's DOMAIN STACK
// row for goccy/go-yaml.
type yamlInstruction struct {
	Index    int      `yaml:"index"`
	Op       string   `yaml:"op"`
	Operands []string `yaml:"operands,omitempty"`
}

type yamlFunction struct {
	Package   string            `yaml:"package,omitempty"`
	Namespace string            `yaml:"namespace,omitempty"`
	Name      string            `yaml:"name"`
	Params    []string          `yaml:"params,omitempty"`
	Body      []yamlInstruction `yaml:"body"`
}

type yamlCodeBlock struct {
	Code      []yamlInstruction `yaml:"code"`
	Functions []yamlFunction    `yaml:"functions,omitempty"`
}

func toYAMLSequence(seq InstructionSequence) []yamlInstruction {
	out := make([]yamlInstruction, len(seq))
	for i, instr := range seq {
		yi := yamlInstruction{Index: i, Op: instr.Op.String()}
		for _, op := range instr.Operands {
			if s := formatOperand(op); s != "" {
				yi.Operands = append(yi.Operands, s)
			}
		}
		out[i] = yi
	}
	return out
}

// DisassembleYAML renders cb as a structured YAML document, for
// `tqscript disasm --format=yaml` and bytecode regression snapshots.
func DisassembleYAML(cb *CodeBlock) (string, error) {
	doc := yamlCodeBlock{Code: toYAMLSequence(cb.Code)}
	for _, fn := range cb.Functions {
		doc.Functions = append(doc.Functions, yamlFunction{
			Package:   fn.Package,
			Namespace: fn.Namespace,
			Name:      fn.Name,
			Params:    fn.Params,
			Body:      toYAMLSequence(fn.Body),
		})
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

package arena

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes one line per slot: id, kind, parent, type and a payload summary.
func (a *Arena) Dump(w io.Writer) error {
	for i := 1; i < len(a.slots); i++ {
		s := a.slots[i]
		line := fmt.Sprintf("#%-4d %-15s parent=#%-4d type=%-14s %s\n",
			i, s.Kind, s.Parent, a.TypeName(s.Type), a.summary(s.Payload))
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (a *Arena) summary(p Payload) string {
	switch p := p.(type) {
	case *File:
		return fmt.Sprintf("%s body=#%d", p.Name, p.Body)
	case *Braces:
		return fmt.Sprintf("lines=%s names=[%s]", ids(p.Lines), strings.Join(p.Names.Names(), " "))
	case *Declare:
		mode := ":="
		if p.Static {
			mode = "::"
		}
		if p.Host {
			return fmt.Sprintf("%s (host)", p.Name)
		}
		return fmt.Sprintf("%s %s #%d", p.Name, mode, p.Value)
	case *Unresolved:
		return p.Name + " (unresolved)"
	case *Call:
		s := fmt.Sprintf("#%d(%s)", p.Target, ids(p.Args))
		if p.Method != nil {
			s += " -> " + p.Method.String()
		}
		return s
	case *Identifier:
		return fmt.Sprintf("%s -> #%d", p.Name, p.Decl)
	case *Void:
		return "()"
	case *Boolean:
		return strconv.FormatBool(p.Value)
	case *Integer:
		return strconv.FormatInt(p.Value, 10)
	case *String:
		return strconv.Quote(p.Value)
	case *If:
		return fmt.Sprintf("if #%d then #%d", p.Cond, p.Body)
	case *Add:
		return fmt.Sprintf("#%d + #%d", p.Left, p.Right)
	case *Return:
		if !p.Value.IsValid() {
			return "return ()"
		}
		return fmt.Sprintf("return #%d", p.Value)
	case *Intrinsic:
		return p.Name
	case *Parameter:
		return "<>"
	case *LogicalNegation:
		return fmt.Sprintf("!#%d", p.Operand)
	case *Negation:
		return fmt.Sprintf("-#%d", p.Operand)
	case *Assign:
		return fmt.Sprintf("#%d = #%d", p.Target, p.Value)
	case *Member:
		if p.Getter != nil {
			return fmt.Sprintf("#%d.%s (field)", p.Target, p.Name)
		}
		return fmt.Sprintf("#%d.%s", p.Target, p.Name)
	case TypeInfo:
		return p.describe(a)
	default:
		return fmt.Sprintf("%T", p)
	}
}

func ids(list []ID) string {
	parts := make([]string, len(list))
	for i, id := range list {
		parts[i] = "#" + strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}

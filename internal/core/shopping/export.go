package shopping

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format 匯出格式
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// ParseFormat 解析匯出格式，空字串視為 JSON
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatText:
		return f, nil
	case "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType 匯出格式對應的 MIME 類型
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Export 以指定格式輸出購物清單
func Export(w io.Writer, list *List, format Format) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	case FormatCSV:
		return writeCSV(w, list)
	case FormatText:
		return writeText(w, list)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeCSV(w io.Writer, list *List) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Category", "Ingredient", "Quantity", "Unit", "Recipes", "Substitutions", "Note"}); err != nil {
		return err
	}
	for _, c := range list.Categories {
		for _, it := range c.Items {
			qty := ""
			if it.Quantity != nil {
				qty = FormatQuantity(*it.Quantity)
			}
			record := []string{
				c.Name,
				it.Key,
				qty,
				it.Unit,
				strings.Join(it.ContributingRecipes, "; "),
				strings.Join(it.Substitutions, "; "),
				it.Note,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeText(w io.Writer, list *List) error {
	var b strings.Builder
	b.WriteString("SHOPPING LIST\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	for _, c := range list.Categories {
		fmt.Fprintf(&b, "\n%s:\n", strings.ToUpper(strings.ReplaceAll(c.Name, "_", " ")))
		for _, it := range c.Items {
			b.WriteString("  [ ] ")
			if it.Quantity != nil {
				b.WriteString(FormatQuantity(*it.Quantity) + " ")
			}
			if it.Unit != "" {
				b.WriteString(it.Unit + " ")
			}
			b.WriteString(it.Key)
			if len(it.ContributingRecipes) > 0 {
				fmt.Fprintf(&b, " (for: %s)", strings.Join(it.ContributingRecipes, ", "))
			}
			b.WriteString("\n")
			if it.Note != "" {
				fmt.Fprintf(&b, "      note: %s\n", it.Note)
			}
			if len(it.Substitutions) > 0 {
				fmt.Fprintf(&b, "      substitutes: %s\n", strings.Join(it.Substitutions, ", "))
			}
		}
	}
	if len(list.ExcludedByPantry) > 0 {
		fmt.Fprintf(&b, "\nAlready in pantry: %s\n", strings.Join(list.ExcludedByPantry, ", "))
	}
	fmt.Fprintf(&b, "\nTotal items: %d\n", list.TotalItems)
	_, err := io.WriteString(w, b.String())
	return err
}

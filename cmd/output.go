package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goosewin/shor/internal/shor"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validFormat(format string) bool {
	switch format {
	case formatText, formatJSON, formatYAML:
		return true
	default:
		return false
	}
}

func writeResult(out io.Writer, format string, result shor.Result) error {
	switch format {
	case formatText:
		_, err := fmt.Fprintln(out, formatFactors(result.Factors))
		return err
	case formatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case formatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(result); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// formatFactors renders factors as "[3, 7]".
func formatFactors(factors []int) string {
	parts := make([]string, 0, len(factors))
	for _, factor := range factors {
		parts = append(parts, strconv.Itoa(factor))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

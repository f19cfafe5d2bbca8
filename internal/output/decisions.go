package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/temirov/codeprompt/internal/pathfilter"
	"github.com/temirov/codeprompt/internal/types"
)

const (
	statusIgnored  = "ignored"
	statusIncluded = "included"
	statusSkipped  = "not-included"
)

type decisionsDocument struct {
	XMLName   xml.Name         `json:"-" xml:"decisions"`
	Decisions []decisionRecord `json:"decisions" xml:"decision"`
}

type decisionRecord struct {
	Path           string `json:"path" xml:"path,attr"`
	Status         string `json:"status" xml:"status,attr"`
	Ignored        bool   `json:"ignored" xml:"ignored,attr"`
	Included       bool   `json:"included" xml:"included,attr"`
	MatchedPattern string `json:"matchedPattern,omitempty" xml:"matchedPattern,attr,omitempty"`
	Source         string `json:"source" xml:"source,attr"`
}

// DecisionStatus names the outcome of a decision in one word.
func DecisionStatus(decision pathfilter.Decision) string {
	switch {
	case decision.Ignored:
		return statusIgnored
	case decision.Included:
		return statusIncluded
	default:
		return statusSkipped
	}
}

// WriteDecisions renders path decisions in the requested format.
func WriteDecisions(writer io.Writer, format string, decisions []pathfilter.Decision) error {
	records := make([]decisionRecord, 0, len(decisions))
	for _, decision := range decisions {
		records = append(records, decisionRecord{
			Path:           decision.Path,
			Status:         DecisionStatus(decision),
			Ignored:        decision.Ignored,
			Included:       decision.Included,
			MatchedPattern: decision.MatchedPattern,
			Source:         string(decision.Source),
		})
	}
	switch format {
	case types.FormatJSON:
		return writeJSON(writer, decisionsDocument{Decisions: records})
	case types.FormatXML:
		return writeXML(writer, decisionsDocument{Decisions: records})
	case types.FormatRaw, "":
		tableWriter := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
		for _, record := range records {
			pattern := record.MatchedPattern
			if pattern == "" {
				pattern = "-"
			}
			fmt.Fprintf(tableWriter, "%s\t%s\t%s\t%s\n", record.Path, record.Status, record.Source, pattern)
		}
		return tableWriter.Flush()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

type patternsDocument struct {
	XMLName xml.Name `json:"-" xml:"patterns"`
	Exclude []string `json:"exclude" xml:"exclude>pattern"`
	Include []string `json:"include" xml:"include>pattern"`
}

// WritePatterns renders the built-in exclude and include sets.
func WritePatterns(writer io.Writer, format string, exclude pathfilter.PatternList, include pathfilter.PatternList) error {
	document := patternsDocument{Exclude: append([]string{}, exclude...), Include: append([]string{}, include...)}
	switch format {
	case types.FormatJSON:
		return writeJSON(writer, document)
	case types.FormatXML:
		return writeXML(writer, document)
	case types.FormatRaw, "":
		if _, err := fmt.Fprintln(writer, "Exclude:"); err != nil {
			return err
		}
		for _, pattern := range document.Exclude {
			fmt.Fprintf(writer, "  %s\n", pattern)
		}
		fmt.Fprintln(writer)
		fmt.Fprintln(writer, "Include:")
		for _, pattern := range document.Include {
			fmt.Fprintf(writer, "  %s\n", pattern)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/gqa/internal/cypher"
	"github.com/roach88/gqa/internal/export"
	"github.com/roach88/gqa/internal/expr"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/interp"
	"github.com/roach88/gqa/internal/ir"
)

// Recompile statuses.
const (
	StatusMatch          = "match"
	StatusChanged        = "changed"
	StatusNew            = "new"
	StatusUntranslatable = "untranslatable"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Verify bool
	Output string
}

// CompileEntry is the outcome for one document.
type CompileEntry struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Cypher   string `json:"cypher,omitempty"`
	AnswerOK *bool  `json:"answer_ok,omitempty"`
	Error    string `json:"error,omitempty"`
}

// CompileResult is the data payload of the compile command.
type CompileResult struct {
	File       string         `json:"file"`
	Documents  int            `json:"documents"`
	Mismatches int            `json:"mismatches"`
	Entries    []CompileEntry `json:"entries"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file.yaml>",
		Short: "Recompile the Cypher of exported questions",
		Long: `Re-read an exported YAML stream and compile every question's tree to
Cypher again, reporting where the result differs from the stored query.

With --verify, answers are also re-evaluated against the embedded graph.
With --output, the stream is rewritten with the recompiled queries.

Example:
  gqa compile data/gqa-run.yaml --verify
  gqa compile data/gqa-run.yaml -o data/gqa-run.recompiled.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "re-evaluate answers against embedded graphs")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the recompiled stream to this file")

	return cmd
}

func runCompile(opts *CompileOptions, cmd *cobra.Command, path string) error {
	out := formatter(opts.RootOptions, cmd)

	f, err := os.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open export", err)
	}
	docs, err := export.Read(f)
	f.Close()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read export", err)
	}

	res := CompileResult{File: path, Documents: len(docs), Entries: make([]CompileEntry, 0, len(docs))}
	for i := range docs {
		entry := recompile(&docs[i], opts.Verify)
		if entry.Status == StatusChanged || (entry.AnswerOK != nil && !*entry.AnswerOK) {
			res.Mismatches++
		}
		out.VerboseLog("%s %s: %s", entry.ID, entry.Type, entry.Status)
		res.Entries = append(res.Entries, entry)
	}

	if opts.Output != "" {
		if err := writeDocuments(opts.Output, docs); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	}

	if res.Mismatches > 0 {
		if err := out.Error(ErrCodeMismatch,
			fmt.Sprintf("%d of %d documents differ", res.Mismatches, res.Documents), res.Entries); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "recompiled output differs")
	}

	lines := []string{fmt.Sprintf("Recompiled %d documents from %s", res.Documents, res.File)}
	counts := map[string]int{}
	for _, e := range res.Entries {
		counts[e.Status]++
	}
	for _, status := range []string{StatusMatch, StatusNew, StatusUntranslatable} {
		if counts[status] > 0 {
			lines = append(lines, fmt.Sprintf("  %-15s %d", status, counts[status]))
		}
	}
	return out.Success(res, lines...)
}

// recompile rebuilds the query of doc in place and reports how it compares
// with the stored one.
func recompile(doc *export.Document, verify bool) CompileEntry {
	q := &doc.Question
	entry := CompileEntry{ID: q.ID, Type: q.TypeString}

	tree, err := q.Tree()
	if err != nil {
		entry.Status = StatusUntranslatable
		entry.Error = err.Error()
		return entry
	}

	query, err := cypher.Compile(tree)
	switch {
	case err != nil:
		entry.Status = StatusUntranslatable
		entry.Error = err.Error()
		if q.Cypher != nil {
			entry.Status = StatusChanged
		}
		q.Cypher = nil
	case q.Cypher == nil:
		entry.Status = StatusNew
		q.Cypher = &query
	case *q.Cypher != query:
		entry.Status = StatusChanged
		q.Cypher = &query
	default:
		entry.Status = StatusMatch
	}
	entry.Cypher = query

	if verify && doc.Graph != nil {
		ok, err := verifyAnswer(doc, tree)
		if err != nil && entry.Error == "" {
			entry.Error = err.Error()
		}
		entry.AnswerOK = &ok
	}
	return entry
}

func verifyAnswer(doc *export.Document, tree ir.IRObject) (bool, error) {
	g, err := graph.FromSpec(*doc.Graph)
	if err != nil {
		return false, fmt.Errorf("graph: %w", err)
	}
	n, err := expr.Parse(tree)
	if err != nil {
		return false, err
	}
	got, err := interp.Evaluate(n, g)
	if err != nil {
		return false, err
	}
	want, err := doc.AnswerValue()
	if err != nil {
		return false, err
	}
	return ir.Equal(got, want), nil
}

func writeDocuments(path string, docs []export.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := export.NewWriter(f)
	for _, doc := range docs {
		if err := w.WriteDocument(doc); err != nil {
			return err
		}
	}
	return w.Close()
}

// Package normal audits a materialized schema snapshot against the normal
// forms 1NF through 6NF/DKNF.
//
// Every audit is a heuristic over the captured rows: dependencies are
// inferred from the data, not from declared constraints, so a small or
// unrepresentative sample can both hide and invent violations.
//
// Null policy: a null cell is treated as an ordinary value. Two nulls group
// together and count as one distinct value wherever rows are grouped or
// values are compared.
package normal

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Options bounds and instruments an audit.
type Options struct {
	// MaxLHS caps the determinant size tried by FD discovery. Zero means
	// no cap beyond the column count.
	MaxLHS int

	// MaxColumns skips the combinatorial audits (3NF, 4NF, 5NF) on tables
	// wider than this. Zero means no limit.
	MaxColumns int

	// Workers is the number of tables analysed concurrently. Values below
	// two run tables one at a time. Output order never depends on it.
	Workers int

	// Logger receives progress output. Nil discards it.
	Logger *slog.Logger
}

// DefaultOptions returns the bounds used by the CLI.
func DefaultOptions() Options {
	return Options{
		MaxLHS:     4,
		MaxColumns: 24,
		Workers:    1,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (o Options) tooWide(r *relation) bool {
	return o.MaxColumns > 0 && len(r.columns) > o.MaxColumns
}

type tableFunc func(snap Snapshot, r *relation, res *tableResult, opts Options)

// Analyze runs the audit for form.
func Analyze(snap Snapshot, form Form, opts Options) (*Report, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	fn, ok := audits[form]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownForm, int(form))
	}
	return run(snap, form, opts, fn), nil
}

// AnalyzeAll runs each audit in forms against the same snapshot. An empty
// list runs every form.
func AnalyzeAll(snap Snapshot, forms []Form, opts Options) ([]*Report, error) {
	if len(forms) == 0 {
		forms = AllForms
	}
	reports := make([]*Report, 0, len(forms))
	for _, f := range forms {
		r, err := Analyze(snap, f, opts)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// RequireTables returns an ErrUnknownTable error naming every entry of
// names that snap does not contain.
func RequireTables(snap Snapshot, names []string) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	known := make(map[string]bool)
	for _, t := range snap.TableNames() {
		known[t] = true
	}
	var missing []string
	for _, n := range names {
		if !known[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownTable, strings.Join(missing, ", "))
	}
	return nil
}

var audits = map[Form]tableFunc{
	Form1NF: firstNF,
	Form2NF: secondNF,
	Form3NF: thirdNF,
	Form4NF: fourthNF,
	Form5NF: fifthNF,
	Form6NF: sixthNF,
}

// FirstNF audits cell shape: atomic values, unique column names, a single
// value kind per column, a primary key, and no numbered repeating groups.
func FirstNF(snap Snapshot, opts Options) *Report { return run(snap, Form1NF, opts, firstNF) }

// SecondNF audits composite primary keys for partial dependencies.
func SecondNF(snap Snapshot, opts Options) *Report { return run(snap, Form2NF, opts, secondNF) }

// ThirdNF audits discovered functional dependencies whose determinant is
// not a superkey.
func ThirdNF(snap Snapshot, opts Options) *Report { return run(snap, Form3NF, opts, thirdNF) }

// FourthNF audits multivalued dependency candidates.
func FourthNF(snap Snapshot, opts Options) *Report { return run(snap, Form4NF, opts, fourthNF) }

// FifthNF audits three-column join dependencies.
func FifthNF(snap Snapshot, opts Options) *Report { return run(snap, Form5NF, opts, fifthNF) }

// SixthNF audits for constraints beyond domain and key constraints.
func SixthNF(snap Snapshot, opts Options) *Report { return run(snap, Form6NF, opts, sixthNF) }

// run applies fn to every table, possibly concurrently, and assembles the
// results in table order. A panic while analysing one table is reported as
// a warning for that table and does not stop the others.
func run(snap Snapshot, form Form, opts Options, fn tableFunc) *Report {
	log := opts.logger().With("form", form.String())
	tables := snap.TableNames()
	results := make([]tableResult, len(tables))

	var g errgroup.Group
	if opts.Workers > 1 {
		g.SetLimit(opts.Workers)
	} else {
		g.SetLimit(1)
	}

	for i, name := range tables {
		g.Go(func() error {
			res := &results[i]
			res.table = name
			defer func() {
				if p := recover(); p != nil {
					res.issues = nil
					res.skip("Table %q analysis failed: %v", name, p)
				}
			}()

			log.Debug("Analyzing table", "table", name)
			fn(snap, loadRelation(snap, name), res, opts)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{Form: form}
	for _, res := range results {
		for _, n := range res.notices {
			switch n.Kind {
			case NoticeSkipped:
				log.Info("Skipping table", "table", n.Table, "reason", n.Message)
			default:
				log.Warn(n.Message, "table", n.Table, "kind", n.Kind.String())
			}
		}
		if !res.skipped {
			report.Analyzed = append(report.Analyzed, res.table)
		}
		report.Issues = append(report.Issues, res.issues...)
		report.Notices = append(report.Notices, res.notices...)
	}
	return report
}

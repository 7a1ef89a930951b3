// Package report renders fit results for people (text blocks, tables) and for
// other tools (CSV, JSON).
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/ja7ad/coeffit/pkg/fit"
	"github.com/ja7ad/coeffit/pkg/util"
)

// Mode names the search that produced a row.
type Mode string

const (
	Mode2D    Mode = "2d"
	ModeJoint Mode = "joint"
)

// Row is one profile's result in output form.
type Row struct {
	Profile   string  `json:"profile"`
	Label     string  `json:"label"`
	MassKg    float64 `json:"mass_kg"`
	Mode      Mode    `json:"mode"`
	ErrorPct  float64 `json:"error_pct"`
	Cd        float64 `json:"cd"`
	Cr        float64 `json:"cr"`
	Evaluated int     `json:"evaluated"`
}

// NewRow pairs a profile with its result. ErrorPct keeps full precision.
func NewRow(p fit.Profile, mode Mode, r fit.Result) Row {
	return Row{
		Profile:   p.Name,
		Label:     p.Label,
		MassKg:    p.Mass.Kg(),
		Mode:      mode,
		ErrorPct:  r.Error * 100,
		Cd:        r.Cd,
		Cr:        r.Cr,
		Evaluated: r.Evaluated,
	}
}

// Block writes one result in the plain console layout:
//
//	--- Jerome TT ---
//	error = 3.2%
//	cd = 0.226
//	cr = 0.0093
//	<blank>
func Block(w io.Writer, label string, r fit.Result) error {
	_, err := fmt.Fprintf(w, "--- %s ---\nerror = %s%%\ncd = %s\ncr = %s\n\n",
		label, util.FmtFixed(util.Percent(r.Error), 1), fixed(r.Cd, 3), fixed(r.Cr, 4))
	return err
}

// Table writes rows as an aligned table.
func Table(w io.Writer, rows []Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROFILE\tMODE\tMASS (kg)\tERROR (%)\tCD\tCR")
	fmt.Fprintln(tw, "-------\t----\t---------\t---------\t--\t--")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Label, r.Mode, fixed(r.MassKg, 1), fixed(r.ErrorPct, 1), fixed(r.Cd, 3), fixed(r.Cr, 4))
	}
	return tw.Flush()
}

// fixed rounds half away from zero before formatting, so 0.0625 shows as
// 0.063 rather than the round-half-even 0.062.
func fixed(v float64, places int) string { return util.FmtFixed(util.Round(v, places), places) }

var csvHeader = []string{"profile", "label", "mass_kg", "mode", "error_pct", "cd", "cr", "evaluated"}

// CSV writes rows with a header line. Floats keep full precision.
func CSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Profile, r.Label,
			util.FmtFloat(r.MassKg), string(r.Mode),
			util.FmtFloat(r.ErrorPct), util.FmtFloat(r.Cd), util.FmtFloat(r.Cr),
			strconv.Itoa(r.Evaluated),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON writes rows as an indented array.
func JSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// Elapsed writes the closing wall-clock line.
func Elapsed(w io.Writer, d time.Duration) error {
	_, err := fmt.Fprintf(w, "done in %s\n", d.Round(time.Millisecond))
	return err
}

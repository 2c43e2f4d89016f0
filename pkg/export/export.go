package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/kilianp07/spaplan/core/blockcode"
	"github.com/kilianp07/spaplan/core/model"
)

// Entry is one scheduled exam.
type Entry struct {
	Module   string   `json:"module" csv:"module"`
	Name     string   `json:"name" csv:"name"`
	ExamType string   `json:"exam_type" csv:"exam_type"`
	Block    string   `json:"block" csv:"block"`
	Week     int      `json:"week" csv:"week"`
	Day      string   `json:"day" csv:"day"`
	Slot     int      `json:"slot" csv:"slot"`
	Groups   []string `json:"groups" csv:"-"`
}

// Entries lists every placement of p in grid order.
func Entries(p *model.Plan) ([]Entry, error) {
	var out []Entry
	var err error
	p.EachTimeslot(func(ts *model.Timeslot) {
		if err != nil || ts.Len() == 0 {
			return
		}
		code, cerr := blockcode.Code(ts.Coordinate)
		if cerr != nil {
			err = cerr
			return
		}
		for _, m := range ts.Modules() {
			e := Entry{
				Module:   m.Number,
				Name:     m.Name,
				ExamType: string(m.ExamType),
				Block:    code,
				Week:     ts.Coordinate.Week,
				Day:      ts.Coordinate.Day.String(),
				Slot:     ts.Coordinate.Slot,
				Groups:   []string{},
			}
			for _, g := range p.GroupsOf(m) {
				e.Groups = append(e.Groups, g.Name())
			}
			out = append(out, e)
		}
	})
	return out, err
}

// WriteJSON writes the schedule to w in JSON format.
func WriteJSON(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	return enc.Encode(entries)
}

type csvEntry struct {
	Entry
	Groups string `csv:"groups"`
}

// WriteCSV writes the schedule to w in CSV format. Group names are joined
// with '|'.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(csvEntry{}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := enc.Encode(csvEntry{Entry: e, Groups: strings.Join(e.Groups, "|")}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

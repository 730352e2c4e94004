package lifecycle

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Timeline holds the cumulative days-after-sowing at which a crop leaves each
// growth stage, plus its total sowing-to-harvest duration. Cutoffs must be
// strictly increasing and TotalDuration must not undercut GrainFillingEnd.
type Timeline struct {
	GerminationEnd  int `json:"germination_end"`
	SeedlingEnd     int `json:"seedling_end"`
	VegetativeEnd   int `json:"vegetative_end"`
	TilleringEnd    int `json:"tillering_end"`
	FloweringEnd    int `json:"flowering_end"`
	GrainFillingEnd int `json:"grain_filling_end"`
	TotalDuration   int `json:"total_duration"`
}

func (tl Timeline) cutoffs() [6]int {
	return [6]int{tl.GerminationEnd, tl.SeedlingEnd, tl.VegetativeEnd, tl.TilleringEnd, tl.FloweringEnd, tl.GrainFillingEnd}
}

func (tl Timeline) Validate() error {
	cuts := tl.cutoffs()
	prev := 0
	for i, c := range cuts {
		if c <= prev {
			return fmt.Errorf("stage cutoffs must be strictly increasing: %v at position %d", cuts, i)
		}
		prev = c
	}
	if tl.TotalDuration < tl.GrainFillingEnd {
		return fmt.Errorf("total duration %d shorter than grain filling end %d", tl.TotalDuration, tl.GrainFillingEnd)
	}
	return nil
}

// TimelineTable is the static per-crop reference data. It is built once at
// startup and never mutated afterwards; Lookup never fails because crop type
// is a free-text field on the record, so anything unknown gets the default
// timeline (the boolean reports whether the crop was actually in the table).
type TimelineTable struct {
	crops map[string]Timeline
	def   Timeline
}

func (t *TimelineTable) Lookup(cropType string) (Timeline, bool) {
	if tl, ok := t.crops[normCrop(cropType)]; ok {
		return tl, true
	}
	return t.def, false
}

// DefaultDuration returns the table's total duration for the crop type, used
// to default duration_days when the farmer does not state one.
func (t *TimelineTable) DefaultDuration(cropType string) int {
	tl, _ := t.Lookup(cropType)
	return tl.TotalDuration
}

func normCrop(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// DefaultTimelines covers the field crops the product ships with. Day counts
// are agronomy-handbook figures, overridable per deployment via CSV.
func DefaultTimelines() *TimelineTable {
	return &TimelineTable{
		crops: map[string]Timeline{
			"wheat":     {7, 25, 50, 70, 95, 115, 130},
			"rice":      {6, 20, 40, 60, 85, 105, 120},
			"maize":     {6, 18, 40, 55, 75, 95, 110},
			"barley":    {7, 22, 45, 65, 88, 108, 125},
			"mustard":   {6, 18, 35, 50, 70, 90, 110},
			"cotton":    {8, 25, 55, 80, 110, 140, 160},
			"sugarcane": {35, 90, 160, 240, 280, 330, 365},
		},
		def: Timeline{7, 21, 42, 63, 88, 108, 120},
	}
}

// LoadTimelinesCSV reads per-crop stage cutoffs from a CSV with columns
// Crop, Germination, Seedling, Vegetative, Tillering, Flowering,
// GrainFilling, Total (header names are matched loosely). Rows that fail
// validation are skipped so one bad line does not take the table down; a
// crop named "default" replaces the fallback timeline.
func LoadTimelinesCSV(path string) (*TimelineTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	head, err := cr.Read()
	if err != nil {
		return nil, err
	}
	hmap := map[string]int{}
	for i, h := range head {
		hmap[normHeader(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[normHeader(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cCrop := findAny("Crop", "crop_type", "croptype", "name")
	cols := [7]int{
		findAny("Germination", "germination_end"),
		findAny("Seedling", "seedling_end"),
		findAny("Vegetative", "vegetative_end"),
		findAny("Tillering", "tillering_end"),
		findAny("Flowering", "flowering_end"),
		findAny("GrainFilling", "grain_filling", "grain_filling_end"),
		findAny("Total", "total_duration", "duration", "duration_days"),
	}
	if cCrop == -1 {
		return nil, fmt.Errorf("timeline CSV missing crop column. Found headers: %v", head)
	}
	for _, c := range cols {
		if c == -1 {
			return nil, fmt.Errorf("timeline CSV missing a stage column. Found headers: %v", head)
		}
	}

	out := DefaultTimelines()
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		// guard against short rows
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return rec[idx]
		}
		getInt := func(idx int) int {
			v, _ := strconv.Atoi(strings.TrimSpace(get(idx)))
			return v
		}
		tl := Timeline{getInt(cols[0]), getInt(cols[1]), getInt(cols[2]), getInt(cols[3]), getInt(cols[4]), getInt(cols[5]), getInt(cols[6])}
		if tl.Validate() != nil {
			continue // skip invalid rows
		}
		name := normCrop(get(cCrop))
		if name == "" {
			continue
		}
		if name == "default" {
			out.def = tl
		} else {
			out.crops[name] = tl
		}
	}
	return out, nil
}

func normHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF") // BOM
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

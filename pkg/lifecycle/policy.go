package lifecycle

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Policy is the tuning side of the scheduler: how often each care event is
// expected (cadence) and how long repeating it is blocked after it was last
// performed (cooldown), both in days and both allowed to vary by growth
// stage. Day counts live here, not in the derivation code, so an operator
// can retune them from a file without a rebuild.
type Policy struct {
	cadence  map[Stage]map[EventType]int
	cooldown map[Stage]map[EventType]int
}

// Base intervals used when a stage has no override row.
var (
	baseCadence  = map[EventType]int{EventIrrigation: 5, EventFertilization: 20, EventPestCheck: 7}
	baseCooldown = map[EventType]int{EventIrrigation: 2, EventFertilization: 7, EventPestCheck: 3}
)

func newPolicy() *Policy {
	return &Policy{
		cadence:  map[Stage]map[EventType]int{},
		cooldown: map[Stage]map[EventType]int{},
	}
}

// DefaultPolicy: thirsty early and around flowering, fertilizer front-loaded,
// pest checks on a steady weekly walk-through.
func DefaultPolicy() *Policy {
	p := newPolicy()
	for st, days := range map[Stage]int{
		StageGermination:  3,
		StageSeedling:     4,
		StageVegetative:   5,
		StageTillering:    5,
		StageFlowering:    3,
		StageGrainFilling: 4,
		StageMaturity:     7,
	} {
		p.setCadence(st, EventIrrigation, days)
	}
	// Irrigation cooldown shortens in flowering: the crop can take water again sooner.
	p.setCooldown(StageFlowering, EventIrrigation, 1)

	for st, days := range map[Stage]int{
		StageGermination:  15,
		StageSeedling:     15,
		StageVegetative:   20,
		StageTillering:    20,
		StageFlowering:    25,
		StageGrainFilling: 30,
		StageMaturity:     45,
	} {
		p.setCadence(st, EventFertilization, days)
	}
	return p
}

func (p *Policy) setCadence(st Stage, ev EventType, days int) {
	if p.cadence[st] == nil {
		p.cadence[st] = map[EventType]int{}
	}
	p.cadence[st][ev] = days
}

func (p *Policy) setCooldown(st Stage, ev EventType, days int) {
	if p.cooldown[st] == nil {
		p.cooldown[st] = map[EventType]int{}
	}
	p.cooldown[st][ev] = days
}

func (p *Policy) Cadence(st Stage, ev EventType) int {
	if v, ok := p.cadence[st][ev]; ok {
		return v
	}
	return baseCadence[ev]
}

func (p *Policy) Cooldown(st Stage, ev EventType) int {
	if v, ok := p.cooldown[st][ev]; ok {
		return v
	}
	return baseCooldown[ev]
}

// LoadPolicyCSV overlays per-(stage, event) day counts onto the default
// policy. Columns: Stage, Event, CadenceDays, CooldownDays (loose header
// match). Either day column may be blank to keep the default. Unknown stage
// or event names skip the row rather than failing the boot.
func LoadPolicyCSV(path string) (*Policy, error) {
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
	p := DefaultPolicy()
	apply, err := policyRowApplier(head)
	if err != nil {
		return nil, err
	}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		apply(p, rec)
	}
	return p, nil
}

// LoadPolicyXLSX reads the same columns from the first sheet of a workbook,
// for deployments that hand agronomists a spreadsheet instead of a CSV.
func LoadPolicyXLSX(path string) (*Policy, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()

	sheet := x.GetSheetName(0)
	rows, err := x.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("policy sheet %q is empty", sheet)
	}
	p := DefaultPolicy()
	apply, err := policyRowApplier(rows[0])
	if err != nil {
		return nil, err
	}
	for _, rec := range rows[1:] {
		apply(p, rec)
	}
	return p, nil
}

func policyRowApplier(head []string) (func(*Policy, []string), error) {
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
	cStage := findAny("Stage", "phase")
	cEvent := findAny("Event", "event_type", "action")
	cCad := findAny("CadenceDays", "cadence", "interval", "interval_days")
	cCool := findAny("CooldownDays", "cooldown", "restriction", "restriction_days")
	if cStage == -1 || cEvent == -1 || (cCad == -1 && cCool == -1) {
		return nil, fmt.Errorf("policy file missing required columns. Found headers: %v\nNeed: Stage, Event and CadenceDays and/or CooldownDays", head)
	}

	get := func(rec []string, idx int) string {
		if idx < 0 || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}
	return func(p *Policy, rec []string) {
		st := Stage(normCrop(get(rec, cStage)))
		ev := EventType(normCrop(get(rec, cEvent)))
		if !st.Valid() || !ev.IsCareEvent() {
			return
		}
		if v, err := strconv.Atoi(get(rec, cCad)); err == nil && v > 0 {
			p.setCadence(st, ev, v)
		}
		if v, err := strconv.Atoi(get(rec, cCool)); err == nil && v >= 0 {
			p.setCooldown(st, ev, v)
		}
	}, nil
}

package rates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"draytrack-backend/internal/logger"
)

// DefaultCode is the mandatory fallback entry. Operator and provider codes
// are an open, externally controlled vocabulary, so an unrecognized code
// degrades to DEFAULT instead of erroring.
const DefaultCode = "DEFAULT"

// Entry holds the billing terms for one operator or provider code.
type Entry struct {
	FreeDays           int   `yaml:"free_days"`
	DailyRateCents     int64 `yaml:"daily_rate_cents"`
	FuelSurchargeCents int64 `yaml:"fuel_surcharge_cents,omitempty"` // chassis providers only
}

// Table is the read-only rate lookup injected into the move lifecycle
// manager and the per-diem calculator. Updates are an external
// administrative operation; they only affect moves created afterwards
// because allowances are snapshotted onto the move at creation.
type Table struct {
	containers map[string]Entry
	chassis    map[string]Entry
}

type tableFile struct {
	Containers map[string]Entry `yaml:"containers"`
	Chassis    map[string]Entry `yaml:"chassis"`
}

// New builds a table from literal entries. Both maps must carry a DEFAULT
// entry; every lookup has to return a value.
func New(containers, chassis map[string]Entry) (*Table, error) {
	if _, ok := containers[DefaultCode]; !ok {
		return nil, fmt.Errorf("container rate table is missing the %s entry", DefaultCode)
	}
	if _, ok := chassis[DefaultCode]; !ok {
		return nil, fmt.Errorf("chassis rate table is missing the %s entry", DefaultCode)
	}
	return &Table{containers: containers, chassis: chassis}, nil
}

// Load reads a rate table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates file: %w", err)
	}

	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse rates file: %w", err)
	}

	return New(tf.Containers, tf.Chassis)
}

func (t *Table) FreeTimeDays(operatorCode string) int {
	return lookup(t.containers, operatorCode, "container").FreeDays
}

func (t *Table) DailyRateCents(operatorCode string) int64 {
	return lookup(t.containers, operatorCode, "container").DailyRateCents
}

func (t *Table) ChassisFreeTimeDays(providerCode string) int {
	return lookup(t.chassis, providerCode, "chassis").FreeDays
}

func (t *Table) ChassisDailyRateCents(providerCode string) int64 {
	return lookup(t.chassis, providerCode, "chassis").DailyRateCents
}

func (t *Table) ChassisFuelSurchargeCents(providerCode string) int64 {
	return lookup(t.chassis, providerCode, "chassis").FuelSurchargeCents
}

// Containers returns the container-side view for the per-diem calculator.
func (t *Table) Containers() View {
	return View{entries: t.containers, class: "container"}
}

// Chassis returns the chassis-side view for the per-diem calculator.
func (t *Table) Chassis() View {
	return View{entries: t.chassis, class: "chassis"}
}

// View exposes one equipment class of the table behind the calculator's
// RateSource contract.
type View struct {
	entries map[string]Entry
	class   string
}

func (v View) FreeTimeDays(code string) int {
	return lookup(v.entries, code, v.class).FreeDays
}

func (v View) DailyRateCents(code string) int64 {
	return lookup(v.entries, code, v.class).DailyRateCents
}

func lookup(entries map[string]Entry, code, class string) Entry {
	if e, ok := entries[code]; ok {
		return e
	}
	logger.Debug("Unknown rate code, using default entry", "class", class, "code", code)
	return entries[DefaultCode]
}

// Package tuning loads balance overrides from a YAML file. Only the fields
// present in the file are overridden; everything else keeps its stock value,
// so a tuning file can adjust a single constant.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/veldtlabs/hexrift/pkg/hexrift"
)

type unitOverride struct {
	HP          *int `yaml:"hp"`
	Attack      *int `yaml:"attack"`
	Range       *int `yaml:"range"`
	Upkeep      *int `yaml:"upkeep"`
	RecruitCost *int `yaml:"recruitCost"`
}

type overrides struct {
	MapRadius            *int `yaml:"mapRadius"`
	StartingEssence      *int `yaml:"startingEssence"`
	BaseIncome           *int `yaml:"baseIncome"`
	NexusHealth          *int `yaml:"nexusHealth"`
	MonolithCost         *int `yaml:"monolithCost"`
	BastionCost          *int `yaml:"bastionCost"`
	MonolithYield        *int `yaml:"monolithYield"`
	LootBonus            *int `yaml:"lootBonus"`
	VanguardDefenseBonus *int `yaml:"vanguardDefenseBonus"`

	Units map[string]unitOverride `yaml:"units"`
}

// LoadFile reads a YAML tuning file and applies it on top of the stock
// balance table. An empty path returns the stock table unchanged.
func LoadFile(path string) (*hexrift.Balance, error) {
	b := hexrift.DefaultBalance()
	if path == "" {
		return b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning file: %w", err)
	}
	if err := Apply(b, data); err != nil {
		return nil, fmt.Errorf("tuning file %s: %w", path, err)
	}
	return b, nil
}

// Apply merges YAML overrides into an existing balance table.
func Apply(b *hexrift.Balance, data []byte) error {
	var o overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	setInt(&b.MapRadius, o.MapRadius)
	setInt(&b.StartingEssence, o.StartingEssence)
	setInt(&b.BaseIncome, o.BaseIncome)
	setInt(&b.NexusHealth, o.NexusHealth)
	setInt(&b.MonolithCost, o.MonolithCost)
	setInt(&b.BastionCost, o.BastionCost)
	setInt(&b.MonolithYield, o.MonolithYield)
	setInt(&b.LootBonus, o.LootBonus)
	setInt(&b.VanguardDefenseBonus, o.VanguardDefenseBonus)

	for name, u := range o.Units {
		archetype := hexrift.Archetype(name)
		stats, ok := b.Units[archetype]
		if !ok {
			return fmt.Errorf("unknown unit archetype %q", name)
		}
		setInt(&stats.HP, u.HP)
		setInt(&stats.Attack, u.Attack)
		setInt(&stats.Range, u.Range)
		setInt(&stats.Upkeep, u.Upkeep)
		setInt(&stats.RecruitCost, u.RecruitCost)
		b.Units[archetype] = stats
	}
	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

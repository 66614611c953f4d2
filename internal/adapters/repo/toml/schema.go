package toml

import (
	"fmt"
	"time"

	"github.com/bnema/quotabar/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int           `toml:"version"`
	FetchedAt time.Time     `toml:"fetched_at"`
	FiveHour  *windowSchema `toml:"five_hour,omitempty"`
	SevenDay  *windowSchema `toml:"seven_day,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported snapshot schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type windowSchema struct {
	Utilization float64    `toml:"utilization"`
	Limit       *int       `toml:"limit,omitempty"`
	Used        *int       `toml:"used,omitempty"`
	ResetsAt    *time.Time `toml:"resets_at,omitempty"`
}

func toSchema(snapshot domain.UsageSnapshot) fileSchema {
	return fileSchema{
		Version:   currentSchemaVersion,
		FetchedAt: snapshot.FetchedAt,
		FiveHour:  toWindowSchema(snapshot.FiveHour),
		SevenDay:  toWindowSchema(snapshot.SevenDay),
	}
}

func fromSchema(file fileSchema) domain.UsageSnapshot {
	return domain.UsageSnapshot{
		FetchedAt: file.FetchedAt,
		FiveHour:  fromWindowSchema(file.FiveHour),
		SevenDay:  fromWindowSchema(file.SevenDay),
	}
}

func toWindowSchema(window *domain.UsageWindow) *windowSchema {
	if window == nil {
		return nil
	}

	return &windowSchema{
		Utilization: window.Utilization,
		Limit:       window.Limit,
		Used:        window.Used,
		ResetsAt:    window.ResetsAt,
	}
}

func fromWindowSchema(schema *windowSchema) *domain.UsageWindow {
	if schema == nil {
		return nil
	}

	return &domain.UsageWindow{
		Utilization: schema.Utilization,
		Limit:       schema.Limit,
		Used:        schema.Used,
		ResetsAt:    schema.ResetsAt,
	}
}

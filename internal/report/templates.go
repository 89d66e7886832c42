package report

import (
	"fmt"

	"scrapjournal/internal/markup"
)

// Metric names a computed section of the weekly page.
type Metric string

const (
	MetricWakeUp       Metric = "wake_up"
	MetricSleepQuality Metric = "sleep_quality"
	MetricWakeUpGraph  Metric = "wake_graph"
)

// Templates holds the configurable sections of every posted page.
type Templates struct {
	Daily  DailyTemplate  `yaml:"daily"`
	Weekly WeeklyTemplate `yaml:"weekly"`
	Sleep  SleepTemplate  `yaml:"sleep"`
}

// DailyTemplate is rendered as Sections, then the week link, then Tag.
type DailyTemplate struct {
	Sections []markup.Item `yaml:"sections"`
	Tag      string        `yaml:"tag"`
}

// WeeklyTemplate is rendered as Metrics, then Sections, then the week link,
// then Tag.
type WeeklyTemplate struct {
	Metrics  []Metric      `yaml:"metrics"`
	Sections []markup.Item `yaml:"sections"`
	Tag      string        `yaml:"tag"`
}

// SleepTemplate is rendered as Sections, then Tag.
type SleepTemplate struct {
	Sections []markup.Item `yaml:"sections"`
	Tag      string        `yaml:"tag"`
}

// DefaultTemplates returns the stock journal layout.
func DefaultTemplates() Templates {
	return Templates{
		Daily: DailyTemplate{
			Sections: []markup.Item{
				{Content: WakeUpLabel, Format: markup.Strong},
				{Content: SleepQualityLabel, Format: markup.Strong},
				{Content: "Today's Tasks", Format: markup.Strong},
				{Content: "How you feel when you wake up", Format: markup.Strong},
				{Content: "How was the day?", Format: markup.Strong},
			},
			Tag: "daily",
		},
		Weekly: WeeklyTemplate{
			Metrics: []Metric{MetricWakeUp, MetricSleepQuality, MetricWakeUpGraph},
			Sections: []markup.Item{
				{Content: "Goals", Format: markup.Strong},
				{Content: "New things", Format: markup.Strong},
				{Content: "Reflections", Format: markup.Strong},
				{Content: "Thoughts", Format: markup.Strong},
			},
			Tag: "weekly",
		},
		Sleep: SleepTemplate{
			Sections: []markup.Item{
				{Content: "Time I tried to sleep", Format: markup.Plain},
				{Content: "Time I fell asleep", Format: markup.Plain},
				{Content: "Time I woke up", Format: markup.Plain},
				{Content: "What I was doing before sleep", Format: markup.Plain},
				{Content: "Thoughts", Format: markup.Plain},
				{Content: "What to do before sleep tonight", Format: markup.Plain},
			},
			Tag: "Sleep improvement",
		},
	}
}

// Validate checks metric names and section formats.
func (t Templates) Validate() error {
	for _, m := range t.Weekly.Metrics {
		switch m {
		case MetricWakeUp, MetricSleepQuality, MetricWakeUpGraph:
		default:
			return fmt.Errorf("weekly template: unknown metric %q", m)
		}
	}
	for name, items := range map[string][]markup.Item{
		"daily":  t.Daily.Sections,
		"weekly": t.Weekly.Sections,
		"sleep":  t.Sleep.Sections,
	} {
		if err := markup.Validate(items); err != nil {
			return fmt.Errorf("%s template: %w", name, err)
		}
	}
	return nil
}

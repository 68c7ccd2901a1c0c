package layout

import "sort"

func suspectSections() []Section {
	return []Section{
		{
			Title: "Personal information",
			Fields: []Field{
				{Key: "fullname", Label: "Full name"},
				{Key: "birthdate", Label: "Born", Format: "date"},
				{Key: "address", Label: "Address"},
				{Key: "issueType", Label: "Issue type"},
				{Key: "familyStatus", Label: "Family status"},
			},
		},
		{
			Title: "Case information",
			Fields: []Field{
				{Key: "job", Label: "Job"},
				{Key: "time", Label: "Time", Extras: []Extra{{Key: "dayNight", Template: " ({value})"}}},
				{Key: "problemLocation", Label: "Location"},
				{Key: "driverName", Label: "Driver", Extras: []Extra{{Key: "point", Template: " - point: {value}"}}},
			},
		},
		{
			Title: "Other information",
			Fields: []Field{
				{Key: "imprisonment", Label: "Imprisonment"},
				{Key: "phone", Label: "Phone"},
				{Key: "sentTo", Label: "Sent to"},
			},
		},
	}
}

var presets = map[string]func() Spec{
	"suspect": func() Spec {
		return Spec{
			Name:           "suspect",
			Width:          1500,
			Height:         2400,
			Title:          "Suspect Information Card",
			TimestampLabel: "Recorded: ",
			MaxValueLines:  2,
			Photo:          Photo{Placement: PlacementTop, Shape: ShapeRect, Width: 360, Height: 440},
			Sections:       suspectSections(),
		}
	},
	"suspect-side": func() Spec {
		return Spec{
			Name:           "suspect-side",
			Width:          1500,
			Height:         1800,
			Title:          "Suspect Information Card",
			TimestampLabel: "Recorded: ",
			MaxValueLines:  1,
			Photo:          Photo{Placement: PlacementSide, Shape: ShapeRect, Width: 420, Height: 1000},
			Sections:       suspectSections(),
		}
	},
	"compact": func() Spec {
		return Spec{
			Name:           "compact",
			Width:          1200,
			Height:         2000,
			AutoHeight:     true,
			Columns:        2,
			Title:          "Suspect Card",
			TimestampLabel: "Recorded: ",
			MaxValueLines:  2,
			QRCode:         true,
			Photo:          Photo{Placement: PlacementTop, Shape: ShapeCircle, Width: 300, Height: 300},
			Sections:       suspectSections(),
		}
	},
	"multi": func() Spec {
		return Spec{
			Name:           "multi",
			Kind:           KindMulti,
			Width:          1000,
			Height:         3000,
			AutoHeight:     true,
			Title:          "Case Record",
			TimestampLabel: "Date: ",
			MaxValueLines:  1,
			Photo:          Photo{Placement: PlacementSide, Shape: ShapeRect, Width: 220, Height: 220},
			Sections: []Section{{
				Title: "Case",
				Fields: []Field{
					{Key: "issueType", Label: "Issue type"},
					{Key: "time", Label: "Time", Extras: []Extra{{Key: "dayNight", Template: " ({value})"}}},
					{Key: "location", Label: "Location"},
					{Key: "driverName", Label: "Driver"},
					{Key: "point", Label: "Point"},
					{Key: "sentTo", Label: "Sent to"},
				},
			}},
			PersonFields: []Field{
				{Key: "fullname", Label: "Name"},
				{Key: "birthdate", Label: "Born", Format: "date"},
				{Key: "address", Label: "Address"},
				{Key: "phone", Label: "Phone", Placeholder: "not available"},
			},
			PersonTypes: map[string]string{
				"complainant": "#27ae60",
				"accused":     "#e74c3c",
			},
		}
	},
}

// Preset returns a normalized copy of a built-in layout.
func Preset(name string) (Spec, bool) {
	f, ok := presets[name]
	if !ok {
		return Spec{}, false
	}
	s := f()
	s.Normalize()
	return s, true
}

// Presets returns normalized copies of every built-in layout, by name.
func Presets() []Spec {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]Spec, 0, len(names))
	for _, n := range names {
		s, _ := Preset(n)
		out = append(out, s)
	}
	return out
}

package models

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCfp_Validate(t *testing.T) {
	conference := &Conference{
		EndDate: date(2026, time.June, 30),
	}

	testCases := []struct {
		name     string
		cfp      Cfp
		siblings []Cfp
		wantErrs map[string]bool // field -> expect at least one error
	}{
		{
			name: "valid events CFP inside the conference window",
			cfp: Cfp{
				CfpType:   CfpTypeEvents,
				StartDate: date(2026, time.June, 1),
				EndDate:   date(2026, time.June, 15),
			},
		},
		{
			name: "valid tracks CFP",
			cfp: Cfp{
				CfpType:   CfpTypeTracks,
				StartDate: date(2026, time.June, 1),
				EndDate:   date(2026, time.June, 15),
			},
		},
		{
			name: "blank type",
			cfp: Cfp{
				StartDate: date(2026, time.June, 1),
				EndDate:   date(2026, time.June, 15),
			},
			wantErrs: map[string]bool{"cfp_type": true},
		},
		{
			name: "unknown type",
			cfp: Cfp{
				CfpType:   "workshops",
				StartDate: date(2026, time.June, 1),
				EndDate:   date(2026, time.June, 15),
			},
			wantErrs: map[string]bool{"cfp_type": true},
		},
		{
			name: "duplicate type in program",
			cfp: Cfp{
				CfpType:   CfpTypeEvents,
				StartDate: date(2026, time.June, 1),
				EndDate:   date(2026, time.June, 15),
			},
			siblings: []Cfp{{CfpType: CfpTypeEvents}},
			wantErrs: map[string]bool{"cfp_type": true},
		},
		{
			name: "duplicate type differing only in case",
			cfp: Cfp{
				CfpType:   "Events",
				StartDate: date(2026, time.June, 1),
				EndDate:   date(2026, time.June, 15),
			},
			siblings: []Cfp{{CfpType: CfpTypeEvents}},
			wantErrs: map[string]bool{"cfp_type": true},
		},
		{
			name: "sibling of a different type does not conflict",
			cfp: Cfp{
				CfpType:   CfpTypeEvents,
				StartDate: date(2026, time.June, 1),
				EndDate:   date(2026, time.June, 15),
			},
			siblings: []Cfp{{CfpType: CfpTypeTracks}},
		},
		{
			name: "end date after conference end",
			cfp: Cfp{
				CfpType:   CfpTypeEvents,
				StartDate: date(2026, time.June, 1),
				EndDate:   date(2026, time.July, 1),
			},
			wantErrs: map[string]bool{"end_date": true},
		},
		{
			name: "start date after conference end",
			cfp: Cfp{
				CfpType:   CfpTypeEvents,
				StartDate: date(2026, time.July, 1),
				EndDate:   date(2026, time.July, 2),
			},
			wantErrs: map[string]bool{"start_date": true, "end_date": true},
		},
		{
			name: "start equals end",
			cfp: Cfp{
				CfpType:   CfpTypeEvents,
				StartDate: date(2026, time.June, 15),
				EndDate:   date(2026, time.June, 15),
			},
			wantErrs: map[string]bool{"start_date": true},
		},
		{
			name: "start one day before end",
			cfp: Cfp{
				CfpType:   CfpTypeEvents,
				StartDate: date(2026, time.June, 14),
				EndDate:   date(2026, time.June, 15),
			},
		},
		{
			name: "missing dates",
			cfp: Cfp{
				CfpType: CfpTypeEvents,
			},
			wantErrs: map[string]bool{"start_date": true, "end_date": true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.cfp.Validate(conference, tc.siblings)
			if len(tc.wantErrs) == 0 {
				if errs != nil {
					t.Fatalf("expected valid, got %v", errs)
				}
				return
			}
			if errs == nil {
				t.Fatal("expected validation errors, got none")
			}
			for field := range tc.wantErrs {
				if len(errs.On(field)) == 0 {
					t.Errorf("expected an error on %s, got %v", field, errs)
				}
			}
		})
	}
}

func TestCfp_Validate_ExcludesSelfOnUpdate(t *testing.T) {
	program := &Program{
		Cfps: []Cfp{
			{Model: modelWithID(1), CfpType: CfpTypeEvents},
			{Model: modelWithID(2), CfpType: CfpTypeTracks},
		},
	}
	conference := &Conference{EndDate: date(2026, time.June, 30)}

	updated := Cfp{
		Model:     modelWithID(1),
		CfpType:   CfpTypeEvents,
		StartDate: date(2026, time.June, 1),
		EndDate:   date(2026, time.June, 15),
	}

	errs := updated.Validate(conference, program.SiblingCfps(updated.ID))
	if errs != nil {
		t.Fatalf("updating a CFP must not conflict with itself: %v", errs)
	}
}

func TestForEventsAndForTracks(t *testing.T) {
	events := Cfp{CfpType: CfpTypeEvents}
	tracks := Cfp{CfpType: CfpTypeTracks}

	testCases := []struct {
		name       string
		cfps       []Cfp
		wantEvents bool
		wantTracks bool
	}{
		{name: "both present", cfps: []Cfp{events, tracks}, wantEvents: true, wantTracks: true},
		{name: "only events", cfps: []Cfp{events}, wantEvents: true},
		{name: "only tracks", cfps: []Cfp{tracks}, wantTracks: true},
		{name: "empty collection", cfps: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ForEvents(tc.cfps); (got != nil) != tc.wantEvents {
				t.Errorf("ForEvents = %v, want present=%v", got, tc.wantEvents)
			}
			if got := ForTracks(tc.cfps); (got != nil) != tc.wantTracks {
				t.Errorf("ForTracks = %v, want present=%v", got, tc.wantTracks)
			}
			if got := ForEvents(tc.cfps); got != nil && got.CfpType != CfpTypeEvents {
				t.Errorf("ForEvents returned a %s CFP", got.CfpType)
			}
		})
	}
}

func TestShouldNotifyDatesUpdated(t *testing.T) {
	prev := &Cfp{
		StartDate: date(2026, time.June, 1),
		EndDate:   date(2026, time.June, 15),
	}
	moved := &Cfp{
		StartDate: date(2026, time.June, 2),
		EndDate:   date(2026, time.June, 15),
	}
	movedEnd := &Cfp{
		StartDate: date(2026, time.June, 1),
		EndDate:   date(2026, time.June, 16),
	}
	unchanged := &Cfp{
		StartDate: date(2026, time.June, 1),
		EndDate:   date(2026, time.June, 15),
	}

	configured := EmailSettings{
		SendOnCfpDatesUpdated:  true,
		CfpDatesUpdatedSubject: "CFP dates changed",
		CfpDatesUpdatedBody:    "The {cfp_type} submission window moved.",
	}

	testCases := []struct {
		name     string
		next     *Cfp
		settings EmailSettings
		expected bool
	}{
		{name: "start date changed", next: moved, settings: configured, expected: true},
		{name: "end date changed", next: movedEnd, settings: configured, expected: true},
		{name: "no date changed", next: unchanged, settings: configured, expected: false},
		{
			name: "toggle off",
			next: moved,
			settings: EmailSettings{
				CfpDatesUpdatedSubject: "CFP dates changed",
				CfpDatesUpdatedBody:    "body",
			},
			expected: false,
		},
		{
			name: "empty subject",
			next: moved,
			settings: EmailSettings{
				SendOnCfpDatesUpdated: true,
				CfpDatesUpdatedBody:   "body",
			},
			expected: false,
		},
		{
			name: "empty body",
			next: moved,
			settings: EmailSettings{
				SendOnCfpDatesUpdated:  true,
				CfpDatesUpdatedSubject: "subject",
			},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ShouldNotifyDatesUpdated(prev, tc.next, &tc.settings)
			if result != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, result)
			}
		})
	}

	t.Run("nil settings", func(t *testing.T) {
		if ShouldNotifyDatesUpdated(prev, moved, nil) {
			t.Error("expected false with nil settings")
		}
	})
}

func TestCfp_Open(t *testing.T) {
	confLoc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 03:00 on June 10th in the conference's timezone.
	now := time.Date(2026, time.June, 10, 3, 0, 0, 0, confLoc)
	day := func(offset int) time.Time {
		return date(2026, time.June, 10+offset)
	}

	// The same instant expressed on wall clocks trailing and leading the
	// conference zone by 25 hours. Open must not care which one it gets.
	clockZones := map[string]time.Time{
		"conference zone": now,
		"25h behind":      now.In(time.FixedZone("behind", 9*3600-25*3600)),
		"25h ahead":       now.In(time.FixedZone("ahead", 9*3600+25*3600)),
	}

	testCases := []struct {
		name     string
		cfp      Cfp
		expected bool
	}{
		{
			name:     "window covering today",
			cfp:      Cfp{StartDate: day(0), EndDate: day(1)},
			expected: true,
		},
		{
			name:     "window starting tomorrow",
			cfp:      Cfp{StartDate: day(1), EndDate: day(2)},
			expected: false,
		},
		{
			name:     "window ended yesterday",
			cfp:      Cfp{StartDate: day(-2), EndDate: day(-1)},
			expected: false,
		},
		{
			name:     "window ending today is still open",
			cfp:      Cfp{StartDate: day(-1), EndDate: day(0)},
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for zone, instant := range clockZones {
				if got := tc.cfp.Open(instant, confLoc); got != tc.expected {
					t.Errorf("%s: expected %v, got %v", zone, tc.expected, got)
				}
			}
		})
	}
}

func TestCfp_Open_ConferenceZoneDecides(t *testing.T) {
	// 23:30 June 9th UTC is already June 10th in Tokyo. A window starting on
	// the 10th is open there, while a UTC-naive check would say closed.
	tokyo, _ := time.LoadLocation("Asia/Tokyo")
	now := time.Date(2026, time.June, 9, 23, 30, 0, 0, time.UTC)
	cfp := Cfp{StartDate: date(2026, time.June, 10), EndDate: date(2026, time.June, 12)}

	if !cfp.Open(now, tokyo) {
		t.Error("expected open: it is already the start date in the conference zone")
	}
	if cfp.Open(now, time.UTC) {
		t.Error("expected closed when the conference zone is UTC")
	}
}

func TestCfp_Questions(t *testing.T) {
	cfp := &Cfp{}

	questions, err := cfp.GetQuestions()
	if err != nil || questions != nil {
		t.Fatalf("expected no questions on empty CFP, got %v, %v", questions, err)
	}

	want := []SubmissionQuestion{
		{ID: "travel", Text: "Need travel support?", Type: "select", Options: []string{"Yes", "No"}, Required: true},
	}
	if err := cfp.SetQuestions(want); err != nil {
		t.Fatalf("SetQuestions: %v", err)
	}

	got, err := cfp.GetQuestions()
	if err != nil {
		t.Fatalf("GetQuestions: %v", err)
	}
	if len(got) != 1 || got[0].ID != "travel" || !got[0].Required {
		t.Errorf("round-tripped questions = %+v", got)
	}
}

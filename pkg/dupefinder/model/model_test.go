package model

import (
	"errors"
	"strings"
	"testing"
)

func TestFingerprintValidate(t *testing.T) {
	cases := []struct {
		name    string
		fp      *Fingerprint
		wantErr error
	}{
		{
			name:    "nil",
			fp:      nil,
			wantErr: ErrEmpty,
		},
		{
			name:    "empty",
			fp:      &Fingerprint{Path: "a.wav", SampleRate: 11025, Duration: 1.0},
			wantErr: ErrEmpty,
		},
		{
			name:    "too long",
			fp:      &Fingerprint{Path: "a.wav", SubFingerprints: make([]uint32, MaxFingerprintLength+1), SampleRate: 11025, Duration: 1.0},
			wantErr: ErrTooLong,
		},
		{
			name:    "zero sample rate",
			fp:      &Fingerprint{Path: "a.wav", SubFingerprints: []uint32{1, 2, 3}, SampleRate: 0, Duration: 1.0},
			wantErr: ErrInvalid,
		},
		{
			name:    "zero duration",
			fp:      &Fingerprint{Path: "a.wav", SubFingerprints: []uint32{1, 2, 3}, SampleRate: 11025, Duration: 0},
			wantErr: ErrInvalid,
		},
		{
			name:    "valid",
			fp:      &Fingerprint{Path: "a.wav", SubFingerprints: []uint32{1, 2, 3}, SampleRate: 11025, Duration: 1.0},
			wantErr: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fp.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate() = %v, want error wrapping %v", err, tc.wantErr)
			}
		})
	}
}

func TestFingerprintString(t *testing.T) {
	var nilFP *Fingerprint
	if got := nilFP.String(); got != "Fingerprint(nil)" {
		t.Errorf("nil.String() = %q, want %q", got, "Fingerprint(nil)")
	}

	fp := &Fingerprint{Path: "song.wav", SubFingerprints: []uint32{1, 2, 3}, SampleRate: 11025, Duration: 2.5}
	got := fp.String()
	if !strings.Contains(got, "song.wav") || !strings.Contains(got, "len=3") {
		t.Errorf("String() = %q, missing expected fields", got)
	}
}

func TestMatchResultString(t *testing.T) {
	m := MatchResult{Similarity: 0.987, BitErrorRate: 0.013, BestOffset: 4, MatchedSegments: 2, IsDuplicate: true}
	got := m.String()
	if !strings.Contains(got, "dup=true") {
		t.Errorf("String() = %q, want it to mention dup=true", got)
	}
}

func TestApproxEqual(t *testing.T) {
	if !ApproxEqual(1.0000001, 1.0, 1e-4) {
		t.Errorf("expected values within eps to be approximately equal")
	}
	if ApproxEqual(1.5, 1.0, 1e-4) {
		t.Errorf("expected values outside eps to not be approximately equal")
	}
}

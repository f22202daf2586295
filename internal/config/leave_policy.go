package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed leave_policy.yaml
var defaultLeavePolicy []byte

const (
	KindAdvance = "advance"
	KindPost    = "post"

	ApproverCoverPerson = "cover_person"
	ApproverManager     = "manager"
	ApproverAdmin       = "admin"
)

type LeavePolicy struct {
	WarningDays             int                 `yaml:"warning_days"`
	DefaultAdvanceLeaveType string              `yaml:"default_advance_leave_type"`
	DefaultPostLeaveType    string              `yaml:"default_post_leave_type"`
	ReasonMinLength         int                 `yaml:"reason_min_length"`
	ReasonMaxLength         int                 `yaml:"reason_max_length"`
	ApprovalSteps           map[string][]string `yaml:"approval_steps"`
	Office                  OfficeHours         `yaml:"office"`
	Schedule                map[string]string   `yaml:"schedule"`
}

type OfficeHours struct {
	Start        string `yaml:"start"`
	End          string `yaml:"end"`
	BreakMinutes int    `yaml:"break_minutes"`
}

// StartOn returns the office opening time on day's date, in day's location.
func (o OfficeHours) StartOn(day time.Time) time.Time {
	return clockOn(day, o.Start)
}

func (o OfficeHours) EndOn(day time.Time) time.Time {
	return clockOn(day, o.End)
}

func clockOn(day time.Time, hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		t = time.Time{}
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location())
}

// DefaultLeaveType returns the configured leave type code for kind.
func (p LeavePolicy) DefaultLeaveType(kind string) string {
	if kind == KindAdvance {
		return p.DefaultAdvanceLeaveType
	}
	return p.DefaultPostLeaveType
}

// LoadLeavePolicy reads path, or the embedded default when path is empty.
func LoadLeavePolicy(path string) (LeavePolicy, error) {
	raw := defaultLeavePolicy
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return LeavePolicy{}, fmt.Errorf("read leave policy: %w", err)
		}
		raw = b
	}
	return ParseLeavePolicy(raw)
}

func ParseLeavePolicy(raw []byte) (LeavePolicy, error) {
	var p LeavePolicy
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return LeavePolicy{}, fmt.Errorf("unmarshal leave policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return LeavePolicy{}, err
	}
	return p, nil
}

func (p LeavePolicy) Validate() error {
	if p.WarningDays < 0 {
		return fmt.Errorf("leave policy: warning_days must not be negative")
	}
	if p.ReasonMinLength < 0 || (p.ReasonMaxLength > 0 && p.ReasonMaxLength < p.ReasonMinLength) {
		return fmt.Errorf("leave policy: invalid reason length bounds")
	}
	for _, kind := range []string{KindAdvance, KindPost} {
		steps := p.ApprovalSteps[kind]
		if len(steps) == 0 {
			return fmt.Errorf("leave policy: approval_steps.%s must have at least one step", kind)
		}
		for i, s := range steps {
			switch s {
			case ApproverCoverPerson:
				if kind != KindAdvance || i != 0 {
					return fmt.Errorf("leave policy: cover_person may only be the first advance step")
				}
			case ApproverManager, ApproverAdmin:
			default:
				return fmt.Errorf("leave policy: unknown approver type %q", s)
			}
		}
	}
	if p.ApprovalSteps[KindAdvance][0] != ApproverCoverPerson {
		return fmt.Errorf("leave policy: advance chain must start with cover_person")
	}
	if p.Office.BreakMinutes < 0 {
		return fmt.Errorf("leave policy: office.break_minutes must not be negative")
	}
	for _, v := range []string{p.Office.Start, p.Office.End} {
		if _, err := time.Parse("15:04", v); err != nil {
			return fmt.Errorf("leave policy: invalid office time %q", v)
		}
	}
	return nil
}

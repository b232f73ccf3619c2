package command

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/yndnr/accessctl/internal/cli/output"
	"github.com/yndnr/accessctl/internal/core/domain"
	"github.com/yndnr/accessctl/internal/core/service"
)

// accessMethodView is one row of "api list".
type accessMethodView struct {
	ID      string            `json:"id" yaml:"id"`
	Name    string            `json:"name,omitempty" yaml:"name,omitempty"`
	Enabled bool              `json:"enabled" yaml:"enabled"`
	Type    domain.MethodType `json:"type" yaml:"type"`
	Details string            `json:"-" yaml:"-"`
	Method  any               `json:"access_method" yaml:"access_method"`
}

func newAccessMethodView(e domain.ListedAccessMethod) accessMethodView {
	v := accessMethodView{
		ID:      e.ID,
		Name:    e.Name,
		Enabled: e.Enabled,
		Type:    e.Type(),
		Details: e.Summary(),
	}

	if m, ok := e.Decode(); ok {
		v.Method = m
		return v
	}

	// Types this client cannot build (direct, bridges) are passed through.
	var raw any
	if err := json.Unmarshal(e.Method, &raw); err == nil {
		v.Method = raw
	}
	return v
}

// accessMethodList renders as a table or as a JSON/YAML array.
type accessMethodList []accessMethodView

// Table implements output.Tabular.
func (l accessMethodList) Table() *output.Table {
	t := output.NewTable("ID", "NAME", "ENABLED", "TYPE", "DETAILS")
	for _, v := range l {
		t.AddRow(v.ID, v.Name, strconv.FormatBool(v.Enabled), string(v.Type), v.Details)
	}
	return t
}

// probeView is the result of "api test".
type probeView struct {
	Type    domain.MethodType `json:"type" yaml:"type"`
	Via     string            `json:"via" yaml:"via"`
	Target  string            `json:"target" yaml:"target"`
	Latency string            `json:"latency" yaml:"latency"`
}

func newProbeView(r *service.ProbeResult) probeView {
	return probeView{
		Type:    r.Method.Type(),
		Via:     fmt.Sprint(r.Method),
		Target:  r.Target,
		Latency: r.Latency.Round(time.Millisecond).String(),
	}
}

// Table implements output.Tabular.
func (v probeView) Table() *output.Table {
	t := output.NewTable("TYPE", "VIA", "TARGET", "LATENCY")
	t.AddRow(string(v.Type), v.Via, v.Target, v.Latency)
	return t
}

// addedView is the result of "api add".
type addedView struct {
	ID string `json:"id" yaml:"id"`
}

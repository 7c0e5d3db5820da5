package dpi

import "testing"

func TestFromDPI(t *testing.T) {
	tests := []struct {
		name       string
		dpiX, dpiY float64
		want       Scale
	}{
		{"100%", 96, 96, Scale{1, 1}},
		{"125%", 120, 120, Scale{1.25, 1.25}},
		{"150%", 144, 144, Scale{1.5, 1.5}},
		{"200%", 192, 192, Scale{2, 2}},
		{"anisotropic", 144, 96, Scale{1.5, 1}},
		{"zero falls back", 0, 0, Scale{1, 1}},
		{"negative falls back", -1, 144, Scale{1, 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromDPI(tt.dpiX, tt.dpiY); got != tt.want {
				t.Errorf("FromDPI(%v, %v) = %+v, want %+v", tt.dpiX, tt.dpiY, got, tt.want)
			}
		})
	}
}

func TestResolverIsQueriedEveryTime(t *testing.T) {
	calls := 0
	scales := []Scale{{1, 1}, {1.5, 1.5}}
	r := ResolverFunc(func() Scale {
		s := scales[calls%len(scales)]
		calls++
		return s
	})
	if got := r.Resolve(); got != (Scale{1, 1}) {
		t.Errorf("first Resolve() = %+v", got)
	}
	if got := r.Resolve(); got != (Scale{1.5, 1.5}) {
		t.Errorf("second Resolve() = %+v", got)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestApplyAwarenessFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		succeed map[Awareness]bool
		want    Awareness
		tried   []Awareness
	}{
		{"v2", map[Awareness]bool{PerMonitorAwareV2: true, PerMonitorAware: true}, PerMonitorAwareV2, []Awareness{PerMonitorAwareV2}},
		{"per-monitor", map[Awareness]bool{PerMonitorAware: true}, PerMonitorAware, []Awareness{PerMonitorAwareV2, PerMonitorAware}},
		{"system", map[Awareness]bool{SystemAware: true}, SystemAware, []Awareness{PerMonitorAwareV2, PerMonitorAware, SystemAware}},
		{"none", nil, Unaware, []Awareness{PerMonitorAwareV2, PerMonitorAware, SystemAware}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tried []Awareness
			step := func(a Awareness) awarenessStep {
				return awarenessStep{a, func() bool {
					tried = append(tried, a)
					return tt.succeed[a]
				}}
			}
			got := applyAwareness([]awarenessStep{step(PerMonitorAwareV2), step(PerMonitorAware), step(SystemAware)})
			if got != tt.want {
				t.Errorf("applyAwareness = %v, want %v", got, tt.want)
			}
			if len(tried) != len(tt.tried) {
				t.Fatalf("tried %v, want %v", tried, tt.tried)
			}
			for i := range tried {
				if tried[i] != tt.tried[i] {
					t.Errorf("tried %v, want %v", tried, tt.tried)
					break
				}
			}
		})
	}
}

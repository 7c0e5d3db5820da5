package dpi

// BaseDPI は 100% スケール時の DPI です。
const BaseDPI = 96.0

// Scale は論理座標 1 単位あたりの物理ピクセル数です。
type Scale struct {
	X, Y float64
}

// Identity は 100% スケールです。問い合わせに失敗したときの値でもあります。
var Identity = Scale{X: 1, Y: 1}

// FromDPI は DPI 値から Scale を計算します。0 以下の値は 96 とみなします。
func FromDPI(dpiX, dpiY float64) Scale {
	if dpiX <= 0 {
		dpiX = BaseDPI
	}
	if dpiY <= 0 {
		dpiY = BaseDPI
	}
	return Scale{X: dpiX / BaseDPI, Y: dpiY / BaseDPI}
}

// Resolver は現在のディスプレイのスケールを返します。
// 結果は 1 回のキャプチャの間だけ使い、次のキャプチャでは改めて呼び出してください。
type Resolver interface {
	Resolve() Scale
}

// ResolverFunc は関数を Resolver として扱います。
type ResolverFunc func() Scale

func (f ResolverFunc) Resolve() Scale { return f() }

// Fixed は常に同じ値を返す Resolver です。
func Fixed(s Scale) Resolver {
	return ResolverFunc(func() Scale { return s })
}

// Awareness はプロセスの DPI 対応のレベルです。
type Awareness int

const (
	Unaware Awareness = iota
	SystemAware
	PerMonitorAware
	PerMonitorAwareV2
)

func (a Awareness) String() string {
	switch a {
	case Unaware:
		return "unaware"
	case SystemAware:
		return "system"
	case PerMonitorAware:
		return "per-monitor"
	case PerMonitorAwareV2:
		return "per-monitor-v2"
	}
	return "unknown"
}

// awarenessStep は DPI 対応の設定方法の 1 つです。apply は成功したら true を返します。
type awarenessStep struct {
	level Awareness
	apply func() bool
}

// applyAwareness は steps を順に試し、最初に成功したレベルを返します。
func applyAwareness(steps []awarenessStep) Awareness {
	for _, s := range steps {
		if s.apply() {
			return s.level
		}
	}
	return Unaware
}

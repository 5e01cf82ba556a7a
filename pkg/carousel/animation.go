package carousel

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// 弹簧静止判定阈值（位移与速度）
const (
	restDisplacementThreshold = 0.001
	restSpeedThreshold        = 0.001

	// maxStepsPerUpdate 单次 Update 最多推进的物理步数（约 4 秒 @60TPS）
	// 防止长时间卡顿后一次性补算过多步
	maxStepsPerUpdate = 240
)

// SpringConfig 弹簧参数，沿用 friction/tension 的调参习惯
type SpringConfig struct {
	Friction float64 `yaml:"friction"`
	Tension  float64 `yaml:"tension"`
}

var (
	// ReleaseSpring 手势释放后的回弹参数
	ReleaseSpring = SpringConfig{Friction: 3, Tension: 0.6}
	// ScrollSpring 程序化 ScrollTo 的回弹参数（更柔和）
	ScrollSpring = SpringConfig{Friction: 4, Tension: 0.8}
)

// Stiffness 将 tension 换算为刚度（Origami 换算公式）
func (c SpringConfig) Stiffness() float64 {
	return (c.Tension-30)*3.62 + 194
}

// Damping 将 friction 换算为阻尼系数（Origami 换算公式）
func (c SpringConfig) Damping() float64 {
	return (c.Friction-8)*3 + 25
}

// Valid 刚度必须为正，阻尼不能为负
func (c SpringConfig) Valid() bool {
	return c.Stiffness() > 0 && c.Damping() >= 0
}

// harmonicaParams 换算为 harmonica 使用的角频率与阻尼比（质量为 1）
func (c SpringConfig) harmonicaParams() (angularFrequency, dampingRatio float64) {
	k := c.Stiffness()
	if k <= 0 {
		k = 1
	}
	d := c.Damping()
	if d < 0 {
		d = 0
	}
	angularFrequency = math.Sqrt(k)
	dampingRatio = d / (2 * math.Sqrt(k))
	return angularFrequency, dampingRatio
}

// AnimationDriver 持有滚动偏移并以弹簧物理驱动其变化
//
// 当前值 = base + offset。offset 仅在拖拽期间非零，
// 用于记录拖拽开始时的零点，FlattenOffset 会把它并入 base。
//
// 由帧循环驱动：每个 tick 调用一次 Update(dt)，不启动任何 goroutine。
type AnimationDriver struct {
	base   float64
	offset float64

	velocity  float64
	target    float64
	spring    harmonica.Spring
	animating bool
	done      func(finished bool)

	step        float64
	accumulator float64

	listeners      map[int]func(value float64)
	nextListenerID int
}

// NewAnimationDriver 创建动画驱动器
//
// 参数：
//   - ticksPerSecond: 物理步进频率，<= 0 时使用 60
func NewAnimationDriver(ticksPerSecond int) *AnimationDriver {
	if ticksPerSecond <= 0 {
		ticksPerSecond = 60
	}
	return &AnimationDriver{
		step:      harmonica.FPS(ticksPerSecond),
		listeners: make(map[int]func(value float64)),
	}
}

// Current 返回当前值（base + offset）
func (d *AnimationDriver) Current() float64 {
	return d.base + d.offset
}

// Offset 返回当前暂存的拖拽零点
func (d *AnimationDriver) Offset() float64 {
	return d.offset
}

// IsAnimating 是否有弹簧动画在进行
func (d *AnimationDriver) IsAnimating() bool {
	return d.animating
}

// Target 返回当前（或最近一次）动画目标
func (d *AnimationDriver) Target() float64 {
	return d.target
}

// SetImmediate 立即设置当前值，清空 offset，并停止进行中的动画
func (d *AnimationDriver) SetImmediate(value float64) {
	d.Stop()
	d.offset = 0
	d.base = value
	d.notify()
}

// SetValue 设置 base（保留 offset），并停止进行中的动画
// 拖拽期间用于写入相对零点的位移
func (d *AnimationDriver) SetValue(raw float64) {
	d.Stop()
	d.base = raw
	d.notify()
}

// SetOffset 设置拖拽零点
func (d *AnimationDriver) SetOffset(offset float64) {
	d.offset = offset
	d.notify()
}

// CaptureOffset 将当前值整体记为拖拽零点（offset = 当前值，base = 0）
// 会停止进行中的动画；当前值不变，订阅者只收到一次通知
func (d *AnimationDriver) CaptureOffset() {
	d.Stop()
	d.offset = d.base + d.offset
	d.base = 0
	d.notify()
}

// FlattenOffset 将 offset 并入 base，当前值不变
func (d *AnimationDriver) FlattenOffset() {
	d.base += d.offset
	d.offset = 0
}

// AnimateTo 以弹簧动画移动到 target
//
// 进行中的动画会先被中断（其回调收到 finished=false），速度保留以保证连续。
// 动画开始前会先执行 FlattenOffset。
//
// 参数：
//   - target: 目标值
//   - cfg: 弹簧参数
//   - done: 完成回调，可为 nil；自然静止时 finished=true，被中断时 finished=false
func (d *AnimationDriver) AnimateTo(target float64, cfg SpringConfig, done func(finished bool)) {
	velocity := 0.0
	if d.animating {
		velocity = d.velocity
		d.finish(false)
	}
	d.FlattenOffset()

	freq, ratio := cfg.harmonicaParams()
	d.spring = harmonica.NewSpring(d.step, freq, ratio)
	d.target = target
	d.velocity = velocity
	d.accumulator = 0
	d.done = done
	d.animating = true

	// 已经在目标上且静止，直接完成
	if d.atRest() {
		d.base = target
		d.notify()
		d.finish(true)
	}
}

// Stop 中断动画，保留当前插值作为新的静止值
// 空闲时调用是安全的
func (d *AnimationDriver) Stop() {
	if !d.animating {
		return
	}
	d.finish(false)
}

// Update 推进动画
//
// 参数：
//   - dt: 距离上一次调用经过的秒数
func (d *AnimationDriver) Update(dt float64) {
	if !d.animating || dt <= 0 {
		return
	}

	d.accumulator += dt
	steps := 0
	for d.accumulator >= d.step && steps < maxStepsPerUpdate {
		d.accumulator -= d.step
		steps++
		d.base, d.velocity = d.spring.Update(d.base, d.velocity, d.target)
		if d.atRest() {
			d.base = d.target
			d.notify()
			d.finish(true)
			return
		}
	}
	if steps == maxStepsPerUpdate {
		d.accumulator = 0
	}
	if steps > 0 {
		d.notify()
	}
}

// Subscribe 订阅值变化，返回取消订阅函数
func (d *AnimationDriver) Subscribe(fn func(value float64)) (cancel func()) {
	id := d.nextListenerID
	d.nextListenerID++
	d.listeners[id] = fn
	return func() {
		delete(d.listeners, id)
	}
}

func (d *AnimationDriver) atRest() bool {
	return math.Abs(d.base-d.target) <= restDisplacementThreshold &&
		math.Abs(d.velocity) <= restSpeedThreshold
}

func (d *AnimationDriver) finish(finished bool) {
	done := d.done
	d.animating = false
	d.velocity = 0
	d.accumulator = 0
	d.done = nil
	if done != nil {
		done(finished)
	}
}

func (d *AnimationDriver) notify() {
	v := d.Current()
	for _, fn := range d.listeners {
		fn(v)
	}
}

package rectpack

import "fmt"

// DefaultSize 定义了矩形包装器的默认最大宽度/高度值
// 基于现代GPU的最大纹理尺寸。如果这个库不是用于创建纹理图集，
// 那么这个值除了提供一个合理的起点外没有特殊意义。
const DefaultSize = 4096

// SeedSize 是允许增长时画布的初始宽高（超过上限时取上限）。
// 小图集因此不必从最大尺寸开始搜索。
const SeedSize = 128

// Config 包含创建 Packer 所需的参数
type Config struct {
	// MaxWidth, MaxHeight 是画布的上限（必须大于0）。
	// 不允许增长时画布固定为这个尺寸。
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`

	// AllowGrow 表示画布从 SeedSize 开始，放不下时加倍直到上限
	AllowGrow bool `yaml:"allow_grow"`

	// AllowRotate 表示是否允许矩形旋转90度以优化布局
	AllowRotate bool `yaml:"allow_rotate"`

	// Padding 定义矩形右边和下边以及画布左边和上边预留的空隙大小
	Padding int `yaml:"padding"`

	// Heuristic 是选择空闲矩形的规则，默认 BestShortSideFit
	Heuristic Heuristic `yaml:"-"`
}

// DefaultConfig 返回默认配置:
//   - 最大尺寸: DefaultSize (4096x4096)
//   - 允许增长，不允许旋转，无间距
//   - 规则: BestShortSideFit
func DefaultConfig() Config {
	return Config{
		MaxWidth:  DefaultSize,
		MaxHeight: DefaultSize,
		AllowGrow: true,
	}
}

// Validate 检查配置是否有效
func (c Config) Validate() error {
	if c.MaxWidth <= 0 || c.MaxHeight <= 0 {
		return fmt.Errorf("%w: width and height must be greater than 0 (given %vx%v)", ErrInvalidSize, c.MaxWidth, c.MaxHeight)
	}
	if c.Padding < 0 {
		return fmt.Errorf("%w (given %v)", ErrInvalidPadding, c.Padding)
	}
	if !c.Heuristic.valid() {
		return fmt.Errorf("%w: %v", ErrInvalidHeuristic, c.Heuristic)
	}
	return nil
}

// Packer 包含一个图集任务的打包状态。
//
// 矩形通过 Add 按调用者决定的顺序加入，Pack 每次都从空画布开始
// 按这个顺序重新打包全部矩形，要么全部成功，要么什么都不改变。
// Packer 不是并发安全的，一个实例只应被一个任务使用。
type Packer struct {
	config Config

	// width, height 是当前画布尺寸，总是不超过上限
	width  int
	height int

	// pending 是待打包的尺寸，顺序有意义
	pending []Size

	// placements 是最近一次成功打包的结果，与 pending 按下标对齐
	placements []Placement

	// free 是最近一次成功打包后的空闲空间，scratch 用于打包尝试
	free    *FreeSpace
	scratch *FreeSpace

	// packed 表示 placements 与当前的 pending 和画布一致
	packed bool
}

// NewPacker 创建并初始化一个新的矩形包装器
// 参数:
//
//	config - 画布上限、增长、旋转、间距和规则
//
// 返回:
//
//	*Packer - 初始化成功的包装器实例
//	error - 如果参数无效则返回错误
func NewPacker(config Config) (*Packer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	p := &Packer{
		config:  config,
		free:    new(FreeSpace),
		scratch: new(FreeSpace),
	}
	p.Clear()
	return p, nil
}

// NewDefaultPacker 创建使用 DefaultConfig 的包装器
func NewDefaultPacker() *Packer {
	packer, _ := NewPacker(DefaultConfig())
	return packer
}

// Config 返回创建时使用的配置
func (p *Packer) Config() Config {
	return p.config
}

// Add 在待打包列表末尾加入一个尺寸，不会尝试放置。
// 返回该尺寸在结果中的下标。
func (p *Packer) Add(width, height int) (int, error) {
	if width < 0 || height < 0 {
		return -1, fmt.Errorf("%w: %vx%v", ErrInvalidSize, width, height)
	}
	p.pending = append(p.pending, NewSize(width, height))
	p.packed = false
	return len(p.pending) - 1, nil
}

// AddSizes 按顺序加入多个尺寸。任何一个尺寸无效时不会加入任何尺寸。
func (p *Packer) AddSizes(sizes ...Size) error {
	for _, size := range sizes {
		if size.Width < 0 || size.Height < 0 {
			return fmt.Errorf("%w: %v", ErrInvalidSize, size)
		}
	}
	p.pending = append(p.pending, sizes...)
	if len(sizes) > 0 {
		p.packed = false
	}
	return nil
}

// Len 返回待打包尺寸的数量
func (p *Packer) Len() int {
	return len(p.pending)
}

// Sizes 返回待打包的尺寸(由内部管理，如需修改请复制)
func (p *Packer) Sizes() []Size {
	return p.pending
}

// Pack 在当前画布上从头打包全部待打包尺寸。
// 返回:
//
//	true: 全部打包成功，Placements 被替换为新结果
//	false: 有尺寸放不下，之前的结果保持不变
func (p *Packer) Pack() bool {
	fs := p.scratch
	fs.Reset(p.width, p.height, p.config.Padding)
	placements := make([]Placement, len(p.pending))
	for i, size := range p.pending {
		placement, ok := fs.Insert(size, p.config.AllowRotate, p.config.Heuristic)
		if !ok {
			p.packed = false
			return false
		}
		placements[i] = placement
	}
	p.placements = placements
	p.free, p.scratch = fs, p.free
	p.packed = true
	return true
}

// Grow 加倍画布较短且未到上限的一边（相等时加宽），然后重新打包；
// 仍然失败则继续增长，直到成功或两边都达到上限。
// 不允许增长时总是返回 false。画布尺寸只增不减。
func (p *Packer) Grow() bool {
	if !p.config.AllowGrow {
		return false
	}
	for {
		if p.width >= p.config.MaxWidth && p.height >= p.config.MaxHeight {
			return false
		}
		growWidth := p.width < p.config.MaxWidth &&
			(p.width <= p.height || p.height >= p.config.MaxHeight)
		if growWidth {
			p.width = min(p.width*2, p.config.MaxWidth)
		} else {
			p.height = min(p.height*2, p.config.MaxHeight)
		}
		if p.Pack() {
			return true
		}
	}
}

// PackAll 打包全部尺寸，失败且允许增长时增长画布。
// 画布增长到上限仍放不下时返回 ErrOutputSizeExceeded。
func (p *Packer) PackAll() error {
	if p.Pack() || p.Grow() {
		return nil
	}
	return fmt.Errorf("%w: %v sizes do not fit in %vx%v", ErrOutputSizeExceeded, len(p.pending), p.config.MaxWidth, p.config.MaxHeight)
}

// Packed 表示 Placements 是否对应当前的待打包列表
func (p *Packer) Packed() bool {
	return p.packed
}

// Placements 返回最近一次成功打包的结果，与加入顺序按下标对齐
// (由内部管理，如需修改请复制)
func (p *Packer) Placements() []Placement {
	return p.placements
}

// CanvasSize 返回当前画布尺寸
func (p *Packer) CanvasSize() Size {
	return NewSize(p.width, p.height)
}

// MaxSize 返回画布上限
func (p *Packer) MaxSize() Size {
	return NewSize(p.config.MaxWidth, p.config.MaxHeight)
}

// FreeRects 返回最近一次成功打包后的空闲矩形(由内部管理，如需修改请复制)
func (p *Packer) FreeRects() []Rect {
	return p.free.Rects()
}

// Bounds 返回包含所有结果（含间距）的最小尺寸
func (p *Packer) Bounds() Size {
	var size Size
	for _, placement := range p.placements {
		if placement.IsEmpty() {
			continue
		}
		size.Width = max(size.Width, placement.Right()+p.config.Padding)
		size.Height = max(size.Height, placement.Bottom()+p.config.Padding)
	}
	return size
}

// Occupancy 计算画布空间利用率(0.0-1.0)，只统计矩形本身，不含间距
func (p *Packer) Occupancy() float64 {
	area := p.width * p.height
	if area == 0 {
		return 0
	}
	used := 0
	for _, placement := range p.placements {
		used += placement.Area()
	}
	return float64(used) / float64(area)
}

// Clear 重置包装器状态(保留配置)
// 清除所有待打包尺寸和结果，画布回到初始尺寸
func (p *Packer) Clear() {
	p.width, p.height = p.config.MaxWidth, p.config.MaxHeight
	if p.config.AllowGrow {
		p.width = min(SeedSize, p.config.MaxWidth)
		p.height = min(SeedSize, p.config.MaxHeight)
	}
	p.pending = p.pending[:0]
	p.placements = nil
	p.free.Reset(p.width, p.height, p.config.Padding)
	p.packed = false
}

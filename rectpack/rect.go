package rectpack

import "fmt"

// Point 描述了二维空间中的一个位置。
type Point struct {
	// X 是在水平 x 轴上的位置。
	X int `json:"x"`
	// Y 是在垂直 y 轴上的位置。
	Y int `json:"y"`
}

// NewPoint 初始化一个具有指定坐标的新点。
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// String 返回点的字符串表示形式。
func (p Point) String() string {
	return fmt.Sprintf("[%v, %v]", p.X, p.Y)
}

// Size 描述了二维空间中实体的尺寸。
type Size struct {
	// Width 是在水平 x 轴上的尺寸。
	Width int `json:"w"`
	// Height 是在垂直 y 轴上的尺寸。
	Height int `json:"h"`
}

// NewSize 创建具有指定尺寸的新尺寸对象。
func NewSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// String 返回尺寸的字符串表示形式。
func (sz Size) String() string {
	return fmt.Sprintf("%vx%v", sz.Width, sz.Height)
}

// Area 返回总面积（宽度 * 高度）。
func (sz Size) Area() int {
	return sz.Width * sz.Height
}

// Perimeter 返回所有边的总长度。
func (sz Size) Perimeter() int {
	return (sz.Width + sz.Height) << 1
}

// MaxSide 返回较大边的值。
func (sz Size) MaxSide() int {
	return max(sz.Width, sz.Height)
}

// MinSide 返回较小边的值。
func (sz Size) MinSide() int {
	return min(sz.Width, sz.Height)
}

// Ratio 计算宽度与高度之间的比率。高度为0时返回0。
func (sz Size) Ratio() float64 {
	if sz.Height == 0 {
		return 0
	}
	return float64(sz.Width) / float64(sz.Height)
}

// IsEmpty 测试宽度或高度是否小于1。
func (sz Size) IsEmpty() bool {
	return sz.Width <= 0 || sz.Height <= 0
}

// Rotated 返回宽高互换后的尺寸。
func (sz Size) Rotated() Size {
	return Size{Width: sz.Height, Height: sz.Width}
}

// Rect 描述了二维空间中的一个位置（左上角）和尺寸。
type Rect struct {
	Point
	Size
}

// NewRect 初始化一个使用指定点和尺寸值的新矩形。
func NewRect(x, y, w, h int) Rect {
	return Rect{
		Point: Point{X: x, Y: y},
		Size:  Size{Width: w, Height: h},
	}
}

// NewRectLTRB 初始化一个使用指定左/上/右/下值的新矩形。
func NewRectLTRB(l, t, r, b int) Rect {
	return Rect{
		Point: Point{X: l, Y: t},
		Size:  Size{Width: r - l, Height: b - t},
	}
}

// String 返回描述矩形的字符串。
func (r Rect) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", r.X, r.Y, r.Width, r.Height)
}

// Right 返回矩形右边缘在 x 轴上的坐标。
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom 返回矩形下边缘在 y 轴上的坐标。
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// ContainsRect 测试指定的矩形是否完全位于接收者的边界内。
// 两个相同的矩形互相包含。
func (r Rect) ContainsRect(rect Rect) bool {
	return r.X <= rect.X &&
		r.Y <= rect.Y &&
		rect.Right() <= r.Right() &&
		rect.Bottom() <= r.Bottom()
}

// Intersects 测试两个矩形的开区间内部是否重叠。
// 仅共享边的矩形不算相交，面积为0的矩形与任何矩形都不相交。
func (r Rect) Intersects(rect Rect) bool {
	return !r.IsEmpty() && !rect.IsEmpty() &&
		rect.X < r.Right() &&
		r.X < rect.Right() &&
		rect.Y < r.Bottom() &&
		r.Y < rect.Bottom()
}

// Union 返回一个包含目标和自己的最小矩形
func (r Rect) Union(rect Rect) Rect {
	return NewRectLTRB(
		min(r.X, rect.X),
		min(r.Y, rect.Y),
		max(r.Right(), rect.Right()),
		max(r.Bottom(), rect.Bottom()),
	)
}

// Placement 是单个矩形的最终放置结果。
type Placement struct {
	// Rect 是最终占用的区域，宽高已经按照旋转互换过。
	Rect
	// Rotated 表示原始的 (w,h) 被互换为 (h,w) 后放置。
	Rotated bool `json:"rotated"`
}

// abs 返回整数的绝对值
func abs(x int) int {
	if x >= 0 {
		return x
	}
	return -x
}

// padSize 在尺寸的右边和下边加上指定的间距
func padSize(size Size, padding int) Size {
	if padding <= 0 {
		return size
	}
	size.Width += padding
	size.Height += padding
	return size
}

// unpadRect 从矩形的右边和下边移除间距
func unpadRect(rect Rect, padding int) Rect {
	if padding <= 0 {
		return rect
	}
	rect.Width -= padding
	rect.Height -= padding
	return rect
}

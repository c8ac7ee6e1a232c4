package rectpack

// FreeSpace 记录画布中尚未被占用的候选区域。
//
// 空闲矩形按插入顺序保存，遍历顺序决定了分数相同时的取舍，
// 因此打包结果对同样的输入是可重复的。每次更新之后，
// 列表中不存在被另一个空闲矩形完全包含的矩形。
type FreeSpace struct {
	rects    []Rect
	split    []Rect
	removed  []bool
	bounds   Rect
	padding  int
	usedArea int
}

// NewFreeSpace 创建覆盖 width x height 画布的空闲空间。
// padding 大于0时，画布的左边和上边预留 padding 宽的边框。
func NewFreeSpace(width, height, padding int) *FreeSpace {
	f := new(FreeSpace)
	f.Reset(width, height, padding)
	return f
}

// Reset 将空闲空间重置为单个覆盖整个画布（减去左上边框）的矩形。
func (f *FreeSpace) Reset(width, height, padding int) {
	padding = max(padding, 0)
	f.padding = padding
	f.usedArea = 0
	f.bounds = NewRect(padding, padding, width-padding, height-padding)
	f.rects = f.rects[:0]
	if !f.bounds.IsEmpty() {
		f.rects = append(f.rects, f.bounds)
	}
}

// Rects 返回当前的空闲矩形(由内部管理，如需修改请复制)
func (f *FreeSpace) Rects() []Rect {
	return f.rects
}

// Len 返回空闲矩形的数量
func (f *FreeSpace) Len() int {
	return len(f.rects)
}

// UsedArea 返回已占用的面积（包含每个矩形的间距）
func (f *FreeSpace) UsedArea() int {
	return f.usedArea
}

// Insert 为 size 找到最佳位置并占用它。
//
// 尺寸先在右边和下边加上间距再参与放置，返回的矩形已经去掉间距。
// 宽或高为0的尺寸不占用空间，总是成功，位置为画布去掉边框后的原点。
func (f *FreeSpace) Insert(size Size, allowRotate bool, heuristic Heuristic) (Placement, bool) {
	if size.IsEmpty() {
		return Placement{Rect: Rect{Point: f.bounds.Point, Size: size}}, true
	}
	placement, ok := f.Find(padSize(size, f.padding), allowRotate, heuristic)
	if !ok {
		return Placement{}, false
	}
	f.Place(placement.Rect)
	placement.Rect = unpadRect(placement.Rect, f.padding)
	return placement, true
}

// Place 把 used 从空闲空间中挖掉：与 used 相交的空闲矩形被移除，
// 替换为它在 used 上、下、左、右四个方向剩余的部分，最后删除冗余的矩形。
func (f *FreeSpace) Place(used Rect) {
	if used.IsEmpty() {
		return
	}
	f.split = f.split[:0]
	kept := f.rects[:0]
	for _, free := range f.rects {
		if !free.Intersects(used) {
			kept = append(kept, free)
			continue
		}
		f.split = splitFreeRect(f.split, free, used)
	}
	f.rects = append(kept, f.split...)
	f.prune()
	f.usedArea += used.Area()
}

// splitFreeRect 将 free 减去 used 后剩余的上、下、左、右部分追加到 dst。
// 上下部分保持 free 的整个宽度，左右部分保持 free 的整个高度。
func splitFreeRect(dst []Rect, free, used Rect) []Rect {
	parts := [4]Rect{
		// 上
		NewRect(free.X, free.Y, free.Width, used.Y-free.Y),
		// 下
		NewRect(free.X, used.Bottom(), free.Width, free.Bottom()-used.Bottom()),
		// 左
		NewRect(free.X, free.Y, used.X-free.X, free.Height),
		// 右
		NewRect(used.Right(), free.Y, free.Right()-used.Right(), free.Height),
	}
	for _, part := range parts {
		if !part.IsEmpty() {
			dst = append(dst, part)
		}
	}
	return dst
}

// prune 删除被其他空闲矩形完全包含的矩形。两个相同的矩形只保留靠前的一个。
func (f *FreeSpace) prune() {
	n := len(f.rects)
	if cap(f.removed) < n {
		f.removed = make([]bool, n)
	}
	removed := f.removed[:n]
	clear(removed)
	for i := 0; i < n; i++ {
		if removed[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if removed[j] {
				continue
			}
			if f.rects[i].ContainsRect(f.rects[j]) {
				removed[j] = true
				continue
			}
			if f.rects[j].ContainsRect(f.rects[i]) {
				removed[i] = true
				break
			}
		}
	}
	kept := f.rects[:0]
	for i, rect := range f.rects {
		if !removed[i] {
			kept = append(kept, rect)
		}
	}
	f.rects = kept
}

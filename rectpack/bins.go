package rectpack

import "fmt"

// Bin 是 PackBins 产生的一个画布
type Bin struct {
	// Size 是画布尺寸
	Size Size
	// Items 是放入该画布的尺寸在输入中的下标，保持输入顺序
	Items []int
	// Placements 与 Items 按下标对齐
	Placements []Placement
	// FreeRects 是打包完成后剩余的空闲矩形
	FreeRects []Rect
}

// PackBins 把 sizes 按顺序放入所需数量的画布中。
//
// 每个画布先按上限尺寸依次尝试剩余的尺寸，放不下的留给下一个画布；
// 允许增长时再用增长循环为放入的尺寸求出最小的画布。
// 某个尺寸连空的上限画布都放不下时返回 ErrOutputSizeExceeded。
func PackBins(config Config, sizes []Size) ([]Bin, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	for _, size := range sizes {
		if size.Width < 0 || size.Height < 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
		}
	}

	remaining := make([]int, len(sizes))
	for i := range remaining {
		remaining[i] = i
	}

	var bins []Bin
	fs := new(FreeSpace)
	for len(remaining) > 0 {
		fs.Reset(config.MaxWidth, config.MaxHeight, config.Padding)
		var taken, rest []int
		var placements []Placement
		for _, index := range remaining {
			placement, ok := fs.Insert(sizes[index], config.AllowRotate, config.Heuristic)
			if !ok {
				rest = append(rest, index)
				continue
			}
			taken = append(taken, index)
			placements = append(placements, placement)
		}
		if len(taken) == 0 || (!hasArea(sizes, taken) && len(rest) > 0) {
			return bins, fmt.Errorf("%w: size %v does not fit in %vx%v", ErrOutputSizeExceeded, sizes[rest[0]], config.MaxWidth, config.MaxHeight)
		}

		bin := Bin{
			Size:       NewSize(config.MaxWidth, config.MaxHeight),
			Items:      taken,
			Placements: placements,
			FreeRects:  append([]Rect(nil), fs.Rects()...),
		}
		if config.AllowGrow {
			shrunk, err := shrinkBin(config, sizes, taken)
			if err != nil {
				return bins, err
			}
			bin.Size = shrunk.CanvasSize()
			bin.Placements = shrunk.Placements()
			bin.FreeRects = shrunk.FreeRects()
		}
		bins = append(bins, bin)
		remaining = rest
	}
	return bins, nil
}

// shrinkBin 从 SeedSize 开始重新打包已确定放入同一画布的尺寸。
// 失败的尝试不会改变空闲空间，所以这些尺寸在上限画布上必然能放下。
func shrinkBin(config Config, sizes []Size, items []int) (*Packer, error) {
	p, err := NewPacker(config)
	if err != nil {
		return nil, err
	}
	for _, index := range items {
		if _, err := p.Add(sizes[index].Width, sizes[index].Height); err != nil {
			return nil, err
		}
	}
	if err := p.PackAll(); err != nil {
		return nil, err
	}
	return p, nil
}

// hasArea 表示 items 中是否有占用空间的尺寸
func hasArea(sizes []Size, items []int) bool {
	for _, index := range items {
		if !sizes[index].IsEmpty() {
			return true
		}
	}
	return false
}

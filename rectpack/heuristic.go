package rectpack

import (
	"errors"
	"fmt"
	"strings"
)

// Heuristic 选择放置时对候选空闲矩形打分的规则。
// 所有规则的分数都是越小越好，分数相同时保留先遍历到的候选。
type Heuristic uint8

const (
	// BestShortSideFit 最小化较短剩余边，再最小化较长剩余边。默认规则。
	BestShortSideFit Heuristic = iota
	// BestLongSideFit 最小化较长剩余边，再最小化较短剩余边。
	BestLongSideFit
	// BestAreaFit 最小化剩余面积，再最小化较短剩余边。
	BestAreaFit
	// BottomLeft 最小化放置后的下边缘，再最小化 x 坐标。
	BottomLeft
)

var heuristicNames = [...]string{
	BestShortSideFit: "BestShortSideFit",
	BestLongSideFit:  "BestLongSideFit",
	BestAreaFit:      "BestAreaFit",
	BottomLeft:       "BottomLeft",
}

var (
	ErrInvalidHeuristic = errors.New("invalid heuristic")
	ErrInvalidSize      = errors.New("invalid size")
	ErrInvalidPadding   = errors.New("padding must not be negative")
	// ErrOutputSizeExceeded 表示即使画布增长到上限也无法放下全部矩形。
	ErrOutputSizeExceeded = errors.New("output size exceeded")
)

// String implements the Stringer interface.
func (e Heuristic) String() string {
	if int(e) < len(heuristicNames) {
		return heuristicNames[e]
	}
	return fmt.Sprintf("Heuristic(%d)", uint8(e))
}

func (e Heuristic) valid() bool {
	return int(e) < len(heuristicNames)
}

// ResolveHeuristic 根据名称（不区分大小写）返回对应的规则。
// 同时接受 "bssf"、"blsf"、"baf"、"bl" 等缩写。
func ResolveHeuristic(name string) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bestshortsidefit", "bssf":
		return BestShortSideFit, nil
	case "bestlongsidefit", "blsf":
		return BestLongSideFit, nil
	case "bestareafit", "baf":
		return BestAreaFit, nil
	case "bottomleft", "bl":
		return BottomLeft, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidHeuristic, name)
}

// scoreFunc 为把 width x height 放入 freeRect 左上角打分
type scoreFunc func(width, height int, freeRect Rect) (int, int)

func (e Heuristic) scorer() scoreFunc {
	switch e {
	case BestLongSideFit:
		return scoreBestLong
	case BestAreaFit:
		return scoreBestArea
	case BottomLeft:
		return scoreBottomLeft
	default:
		return scoreBestShort
	}
}

func scoreBestShort(width, height int, freeRect Rect) (int, int) {
	leftoverHoriz := abs(freeRect.Width - width)
	leftoverVert := abs(freeRect.Height - height)
	return min(leftoverHoriz, leftoverVert), max(leftoverHoriz, leftoverVert)
}

func scoreBestLong(width, height int, freeRect Rect) (int, int) {
	leftoverHoriz := abs(freeRect.Width - width)
	leftoverVert := abs(freeRect.Height - height)
	return max(leftoverHoriz, leftoverVert), min(leftoverHoriz, leftoverVert)
}

func scoreBestArea(width, height int, freeRect Rect) (int, int) {
	short, _ := scoreBestShort(width, height, freeRect)
	return freeRect.Area() - width*height, short
}

func scoreBottomLeft(_, height int, freeRect Rect) (int, int) {
	return freeRect.Y + height, freeRect.X
}

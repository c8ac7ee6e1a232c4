package rectpack

import "math"

// Find 在空闲矩形中为 size 选出最佳的位置和方向，但不修改空闲空间。
//
// 每个空闲矩形先尝试正向放置，允许旋转时再尝试旋转90度。
// 只有分数严格更小的候选才会替换当前最佳候选，所以分数相同时
// 先遍历到的空闲矩形（以及正向放置）胜出。找不到位置时返回 false。
func (f *FreeSpace) Find(size Size, allowRotate bool, heuristic Heuristic) (Placement, bool) {
	score := heuristic.scorer()
	width, height := size.Width, size.Height

	var best Placement
	bestScore1 := math.MaxInt
	bestScore2 := math.MaxInt
	found := false

	for _, freeRect := range f.rects {
		// 正向
		if freeRect.Width >= width && freeRect.Height >= height {
			score1, score2 := score(width, height, freeRect)
			if score1 < bestScore1 || (score1 == bestScore1 && score2 < bestScore2) {
				best = Placement{Rect: NewRect(freeRect.X, freeRect.Y, width, height)}
				bestScore1, bestScore2 = score1, score2
				found = true
			}
		}

		// 旋转
		if allowRotate && freeRect.Width >= height && freeRect.Height >= width {
			score1, score2 := score(height, width, freeRect)
			if score1 < bestScore1 || (score1 == bestScore1 && score2 < bestScore2) {
				best = Placement{Rect: NewRect(freeRect.X, freeRect.Y, height, width), Rotated: true}
				bestScore1, bestScore2 = score1, score2
				found = true
			}
		}
	}
	return best, found
}

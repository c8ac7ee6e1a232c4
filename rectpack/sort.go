package rectpack

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortFunc 定义矩形尺寸比较函数的原型
// 返回值:
//
//	-1: a 排在 b 前面
//	 0: a == b
//	 1: a 排在 b 后面
type SortFunc func(a, b Size) int

// SortArea 按矩形面积降序排序(从大到小)
func SortArea(a, b Size) int {
	return cmp.Compare(b.Area(), a.Area())
}

// SortPerimeter 按矩形周长降序排序(从大到小)
func SortPerimeter(a, b Size) int {
	return cmp.Compare(b.Perimeter(), a.Perimeter())
}

// SortDiff 按矩形宽高差降序排序(从大到小)
func SortDiff(a, b Size) int {
	return cmp.Compare(abs(b.Width-b.Height), abs(a.Width-a.Height))
}

// SortMinSide 按矩形最短边降序排序(从大到小)
func SortMinSide(a, b Size) int {
	return cmp.Compare(b.MinSide(), a.MinSide())
}

// SortMaxSide 按矩形最长边降序排序(从大到小)
func SortMaxSide(a, b Size) int {
	return cmp.Compare(b.MaxSide(), a.MaxSide())
}

// SortRatio 按矩形宽高比降序排序(从大到小)
func SortRatio(a, b Size) int {
	return cmp.Compare(b.Ratio(), a.Ratio())
}

// ResolveSort 根据名称返回排序函数。"none" 返回 nil，表示保持输入顺序。
func ResolveSort(name string) (SortFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "area":
		return SortArea, nil
	case "perimeter":
		return SortPerimeter, nil
	case "diff":
		return SortDiff, nil
	case "minside":
		return SortMinSide, nil
	case "maxside":
		return SortMaxSide, nil
	case "ratio":
		return SortRatio, nil
	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown sort order %q", name)
}

// SortOrder 返回按 compare 稳定排序后的下标序列，sizes 本身不会被修改。
// compare 为 nil 时返回原始顺序。
//
// Packer 从不对待打包的矩形重新排序：先放大矩形的效果明显更好，
// 调用者应该先用这里的结果决定 Add 的顺序。
func SortOrder(sizes []Size, compare SortFunc) []int {
	order := make([]int, len(sizes))
	for i := range order {
		order[i] = i
	}
	if compare == nil {
		return order
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return compare(sizes[a], sizes[b])
	})
	return order
}

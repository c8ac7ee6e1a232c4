package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"atlasbuilder/rectpack"

	"github.com/sirupsen/logrus"
)

const (
	metaFormatHash  = "hash"
	metaFormatArray = "array"
)

// Frame 描述图集中的一个精灵。
// Frame 的宽高是精灵旋转前的尺寸，Rotated 为 true 时图集中实际占用的区域宽高互换。
type Frame struct {
	Filename         string        `json:"filename,omitempty"`
	Rotated          bool          `json:"rotated"`
	Trimmed          bool          `json:"trimmed"`
	Frame            rectpack.Rect `json:"frame"`
	SpriteSourceSize rectpack.Rect `json:"spriteSourceSize"`
	SourceSize       rectpack.Size `json:"sourceSize"`
}

// Region 返回精灵在图集中实际占用的区域
func (f Frame) Region() rectpack.Rect {
	if f.Rotated {
		return rectpack.Rect{Point: f.Frame.Point, Size: f.Frame.Size.Rotated()}
	}
	return f.Frame
}

// MetaInfo 描述图集图片本身
type MetaInfo struct {
	App   string        `json:"app"`
	Image string        `json:"image"`
	Size  rectpack.Size `json:"size"`
}

// HashMeta 以精灵名称为键保存精灵
type HashMeta struct {
	Frames map[string]Frame `json:"frames"`
	Meta   MetaInfo         `json:"meta"`
}

// ArrayMeta 按打包输入的顺序保存精灵
type ArrayMeta struct {
	Frames []Frame  `json:"frames"`
	Meta   MetaInfo `json:"meta"`
}

// spriteName 计算精灵在元数据中的名称
func spriteName(path, rootDir string, filenameOnly bool) string {
	if filenameOnly {
		return filepath.Base(path)
	}
	if rootDir == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(rootDir, path)
	if err != nil || !filepath.IsLocal(rel) {
		logrus.WithField("path", path).WithField("root", rootDir).Warn("sprite is not below the meta root dir")
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// newFrame 为放置在 placement 的精灵生成元数据
func newFrame(s *sprite, placement rectpack.Placement) Frame {
	return Frame{
		Rotated:          placement.Rotated,
		Trimmed:          s.trimmed(),
		Frame:            rectpack.Rect{Point: placement.Point, Size: s.size()},
		SpriteSourceSize: s.sourceRect(),
		SourceSize:       rectpack.NewSize(s.source.Dx(), s.source.Dy()),
	}
}

// encodeMeta 生成元数据。hash 格式带缩进，array 格式是紧凑的单行 JSON。
func encodeMeta(format string, info MetaInfo, names []string, frames []Frame) ([]byte, error) {
	if format == metaFormatArray {
		data := ArrayMeta{Frames: make([]Frame, len(frames)), Meta: info}
		for i, frame := range frames {
			frame.Filename = names[i]
			data.Frames[i] = frame
		}
		return json.Marshal(data)
	}
	data := HashMeta{Frames: make(map[string]Frame, len(frames)), Meta: info}
	for i, frame := range frames {
		if _, ok := data.Frames[names[i]]; ok {
			logrus.WithField("name", names[i]).Warn("duplicate sprite name, the later sprite replaces the earlier one")
		}
		data.Frames[names[i]] = frame
	}
	return json.MarshalIndent(data, "", "  ")
}

// writeMeta 把元数据写入 path
func writeMeta(path, format string, info MetaInfo, names []string, frames []Frame) error {
	data, err := encodeMeta(format, info, names, frames)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/sirupsen/logrus"
)

var (
	// 与命令行工具既有的输出保持一致，首字母大写
	errNotExist = errors.New("File does not exist")
	errNoImages = errors.New("no input images found")
)

// imageExts 是可以作为输入的图片扩展名
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

func isImageFile(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// collectInputs 展开输入参数。
// 文件按给出的顺序直接使用，目录递归查找图片并按自然顺序排序。
func collectInputs(inputs []string) ([]string, error) {
	var paths []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errNotExist, input)
		}
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !isImageFile(input) {
				logrus.WithField("path", input).Warn("skipping file with unsupported extension")
				continue
			}
			paths = append(paths, input)
			continue
		}
		found, err := scanDir(input)
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{"dir": input, "count": len(found)}).Debug("scanned input directory")
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return nil, errNoImages
	}
	return paths, nil
}

// scanDir 递归查找 dir 中的图片文件
func scanDir(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isImageFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Sort(natural.StringSlice(paths))
	return paths, nil
}

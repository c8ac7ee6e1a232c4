package main

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
)

// spriteColor 是报告中精灵的填充颜色
type spriteColor struct {
	R, G, B int
}

var spriteColors = []spriteColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// A4 横向页面布局（毫米）
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 8.0
	drawAreaTop  = marginTop + headerHeight + statsHeight
)

// writeReport 输出 PDF 布局报告：每个图集一页，最后是汇总页。
// names 与 atlases 中的精灵按下标对齐。
func writeReport(path string, atlases []atlas, names [][]string) error {
	if len(atlases) == 0 {
		return fmt.Errorf("no atlases to report")
	}
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(appName+" layout report", true)
	pdf.SetAutoPageBreak(false, marginBottom)

	for i := range atlases {
		pdf.AddPage()
		renderAtlasPage(pdf, &atlases[i], names[i], i)
	}
	pdf.AddPage()
	renderSummaryPage(pdf, atlases)
	return pdf.OutputFileAndClose(path)
}

func renderAtlasPage(pdf *fpdf.Fpdf, a *atlas, names []string, index int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Atlas %d (%v)", index, a.size)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	rotated := 0
	for _, p := range a.placements {
		if p.Rotated {
			rotated++
		}
	}
	stats := fmt.Sprintf("Sprites: %d | Rotated: %d | Free rects: %d | Occupancy: %.1f%%",
		len(a.placements), rotated, len(a.freeRects), a.occupancy()*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom
	if a.size.IsEmpty() {
		return
	}
	scale := math.Min(drawWidth/float64(a.size.Width), drawHeight/float64(a.size.Height))
	offsetX := marginLeft + (drawWidth-float64(a.size.Width)*scale)/2
	offsetY := drawAreaTop

	// 画布
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, float64(a.size.Width)*scale, float64(a.size.Height)*scale, "FD")

	for i, p := range a.placements {
		if p.IsEmpty() {
			continue
		}
		col := spriteColors[i%len(spriteColors)]
		px := offsetX + float64(p.X)*scale
		py := offsetY + float64(p.Y)*scale
		pw := float64(p.Width) * scale
		ph := float64(p.Height) * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(px, py, pw, ph, "FD")

		// 只在足够大的矩形中写名称
		if pw > 15 && ph > 6 {
			pdf.SetFont("Helvetica", "", math.Min(8, ph/2))
			pdf.SetTextColor(0, 0, 0)
			label := names[i]
			if p.Rotated {
				label += " (R)"
			}
			if w := pdf.GetStringWidth(label); w < pw-2 {
				pdf.SetXY(px+(pw-w)/2, py+ph/2-2)
				pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}
}

func renderSummaryPage(pdf *fpdf.Fpdf, atlases []atlas) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Summary", "", 0, "L", false, 0, "")

	header := []string{"Atlas", "Size", "Sprites", "Occupancy"}
	widths := []float64{30, 50, 30, 40}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, drawAreaTop)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	total := 0
	for i := range atlases {
		a := &atlases[i]
		total += len(a.placements)
		pdf.SetX(marginLeft)
		pdf.CellFormat(widths[0], 6, fmt.Sprint(i), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, a.size.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprint(len(a.placements)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%.1f%%", a.occupancy()*100), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetX(marginLeft)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[0]+widths[1], 6, "Total", "1", 0, "C", false, 0, "")
	pdf.CellFormat(widths[2], 6, fmt.Sprint(total), "1", 0, "C", false, 0, "")
	pdf.CellFormat(widths[3], 6, "", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
}

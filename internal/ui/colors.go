package ui

import "image/color"

// Theme colors - these are variables so they can be modified for dark mode
var (
	colBackground = color.NRGBA{R: 24, G: 26, B: 32, A: 255}
	colText       = color.NRGBA{R: 240, G: 240, B: 240, A: 255}
	colSubtle     = color.NRGBA{R: 160, G: 160, B: 170, A: 255}
	colDot        = color.NRGBA{R: 255, G: 255, B: 255, A: 80}
	colDotActive  = color.NRGBA{R: 255, G: 255, B: 255, A: 230}
	colFolderBg   = color.NRGBA{R: 255, G: 255, B: 255, A: 40}
	colPopupBg    = color.NRGBA{R: 44, G: 47, B: 56, A: 245}
	colMerge      = color.NRGBA{R: 255, G: 255, B: 255, A: 70}
	colSearchBg   = color.NRGBA{R: 255, G: 255, B: 255, A: 30}
	colTabActive  = color.NRGBA{R: 66, G: 133, B: 244, A: 255}
	colBackdrop   = color.NRGBA{R: 0, G: 0, B: 0, A: 120} // Behind the folder popup
	colShadow     = color.NRGBA{R: 0, G: 0, B: 0, A: 60}
)

var (
	darkPalette = palette{
		background: colBackground, text: colText, subtle: colSubtle,
		dot: colDot, dotActive: colDotActive, folderBg: colFolderBg,
		popupBg: colPopupBg, merge: colMerge, searchBg: colSearchBg,
	}
	lightPalette = palette{
		background: color.NRGBA{R: 236, G: 238, B: 242, A: 255},
		text:       color.NRGBA{R: 20, G: 20, B: 24, A: 255},
		subtle:     color.NRGBA{R: 100, G: 100, B: 110, A: 255},
		dot:        color.NRGBA{R: 0, G: 0, B: 0, A: 60},
		dotActive:  color.NRGBA{R: 0, G: 0, B: 0, A: 200},
		folderBg:   color.NRGBA{R: 0, G: 0, B: 0, A: 25},
		popupBg:    color.NRGBA{R: 250, G: 250, B: 252, A: 245},
		merge:      color.NRGBA{R: 0, G: 0, B: 0, A: 40},
		searchBg:   color.NRGBA{R: 0, G: 0, B: 0, A: 18},
	}
)

type palette struct {
	background, text, subtle color.NRGBA
	dot, dotActive           color.NRGBA
	folderBg, popupBg, merge color.NRGBA
	searchBg                 color.NRGBA
}

// tileColor derives a stable placeholder color from a name.
func tileColor(name string) color.NRGBA {
	var h uint32 = 2166136261
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= 16777619
	}
	return color.NRGBA{R: 60 + uint8(h%140), G: 60 + uint8((h>>8)%140), B: 60 + uint8((h>>16)%140), A: 255}
}

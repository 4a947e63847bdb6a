package fjord

// channelRects locates the Y, U and V planes within the decoded IFS canvas.
// The canvas packs them side by side: Y occupies the left two-thirds of the
// width at full height, U and V each occupy the right third at half height,
// stacked vertically.
func channelRects(canvasWidth, canvasHeight int) [maxChannelsCount]Rect {
	halfWidth := canvasWidth / 3
	halfHeight := canvasHeight / 2

	return [maxChannelsCount]Rect{
		NewRect(0, 0, halfWidth<<1, halfHeight<<1),
		NewRect(halfWidth<<1, 0, halfWidth, halfHeight),
		NewRect(halfWidth<<1, halfHeight, halfWidth, halfHeight),
	}
}

const uint16MaxValue = 0xFFFF

// channelAdjustment converts a channel header's raw shift fields into the
// Q8 contrast/brightness adjustment cropResizeAdjust expects.
func channelAdjustment(ch channelHeader) (contrast, brightness Pixel) {
	contrast = PixelFromFraction(int(ch.contrastShift), uint16MaxValue)
	brightness = PixelFromFraction(int(ch.brightnessShift), uint16MaxValue)
	return contrast, brightness
}

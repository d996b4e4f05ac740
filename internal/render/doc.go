// Package render turns concentration grids into RGBA frames.
//
// A frame is produced in three stages:
//
//	m := render.NewMapper(params)
//	frame = render.Rasterize(frame, grid, m, params.Resolution)
//	smoother.Smooth(frame, params.Smoothing)
//
// [Mapper] applies a 0.3 gamma to both concentrations and picks a color per
// [dynamo.Mode]. [Rasterize] paints every cell as a resolution x resolution
// block with opaque alpha. [Smoother] blends each frame with the previous
// output to damp flicker.
package render

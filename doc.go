// Package rigview is an interactive skeletal-animation viewport for
// [Ebitengine].
//
// A [Viewport] loads an externally authored skeleton through an [Engine],
// fits a camera to the character's pose, and lets the user pan, zoom and
// step through clips. It can export the rendered frame as a PNG or record
// a clip to video.
//
// # Quick start
//
//	vp := rigview.NewViewport(ctx, rigview.Config{
//		Asset:   desc,
//		Mode:    rigview.ModeStandard,
//		Width:   1280, Height: 720,
//		Engine:  sheet.NewEngine(),
//		Fetcher: rigview.NewHTTPFetcher("http://localhost:8080/assets"),
//		Sink:    rigview.DirSink{Dir: "captures"},
//	})
//	defer vp.Dispose()
//
// Then call [Viewport.Update] and [Viewport.Draw] from your [ebiten.Game].
//
// # Variants
//
// An [AssetDescriptor] names a standard skeleton and up to three variants.
// [Resolve] picks the pair for a [Mode], falling back to the next lower
// variant the descriptor declares. Restricted swaps only the atlas;
// Cutscene and AlternateGuest swap the skeleton too.
//
// # Lifecycle
//
// A viewport is bound to one costume, skin and mode. To change any of
// them, dispose it and create a new one; [Stage] does this for you.
// Dispose cancels every timer and listener the viewport created, so
// nothing fires after a remount.
//
// # Playback
//
// Standard and Restricted assets toggle between "idle" and "motion" on
// click. Cutscene and AlternateGuest assets step through every clip.
// Autoplay steps through every clip when each one completes and ignores
// clicks.
//
// # Capture
//
// [Viewport.Snapshot] saves the next frame as a PNG through the configured
// [Sink]. [Viewport.StartRecording] restarts the active clip once and
// records it with the configured [Encoder]; the recording stops by itself
// when the clip completes. [FFmpegEncoder] picks the best codec from
// [DefaultCodecs] that the local ffmpeg supports.
//
// # Input
//
// Mouse, wheel and touch input are polled from Ebitengine. Tests and
// capture scripts can inject synthetic input with [Viewport.InjectClick],
// [Viewport.InjectDrag] and [Viewport.InjectWheel], or run a YAML script
// with [LoadScript].
//
// [Ebitengine]: https://ebitengine.org
package rigview

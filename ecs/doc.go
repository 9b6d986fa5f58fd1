// Package ecs bridges rigview viewport events into an ECS world.
//
// [NewDonburiStore] forwards every viewport event (load, clip change,
// zoom, pan, recording, snapshot, notice) into a [Donburi] world as a
// typed event. Subscribe to [ViewportEventType] in your systems to receive
// them.
//
// Usage:
//
//	cfg.Events = ecs.NewDonburiStore(world)
//	v := rigview.NewViewport(ctx, cfg)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

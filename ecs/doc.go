// Package ecs provides ECS adapters for zoomgraph's input dispatch.
//
// The primary adapter is [NewDonburiStore], which bridges zoomgraph input
// events (press, drag, click, wheel, enter and exit) reaching nodes that
// carry an EntityID into a [Donburi] world as typed events. Subscribe to
// [InteractionEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	root.DefaultInputManager().SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

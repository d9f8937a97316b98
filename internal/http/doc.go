// Package http provides HTTP handlers and middleware for the reservation API.
//
// The router exposes the following endpoints:
//   - GET /rooms, POST /rooms, GET /rooms/{id}, PUT /rooms/{id}, DELETE /rooms/{id}:
//     room catalog endpoints exchanging the `roomDTO` payload defined in room_handler.go.
//     PUT replaces name and capacity; DELETE answers 409 while bookings reference the room.
//   - GET /bookings?room_id=&date=: lists bookings in insertion order. Each entry carries
//     its 1-based `position` in the unfiltered listing and the resolved `room_name`.
//   - POST /bookings: requests a booking. Body: {"room_id","date","start","end","requester",
//     "purpose","group","remarks","confirm_outside_hours"}. Overlaps answer 409 with the
//     conflicting booking; bookings outside standard hours answer 428 unless
//     `confirm_outside_hours` is true.
//   - DELETE /bookings/{id}, DELETE /bookings/positions/{n}: cancel a booking by id or by
//     position and return it.
//   - GET /availability?date=&start=&end=: rooms with no booking in the interval.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http

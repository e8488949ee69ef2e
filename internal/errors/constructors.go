package errors

import "fmt"

// Convenience functions for the hotelkeys error taxonomy

// Room state rejections

func RoomNotFound(room int) *HotelError {
	return New(CategoryRoom, SeverityError, fmt.Sprintf("room %d does not exist", room)).
		WithCode(CodeRoomNotFound).
		WithContext("room", room)
}

func RoomOccupied(room int, occupant string) *HotelError {
	return New(CategoryRoom, SeverityError, fmt.Sprintf("room %d is already occupied by %s", room, occupant)).
		WithCode(CodeRoomOccupied).
		WithContext("room", room).
		WithContext("occupant", occupant)
}

func RoomAlreadyAvailable(room int) *HotelError {
	return New(CategoryRoom, SeverityError, fmt.Sprintf("room %d is already available", room)).
		WithCode(CodeRoomAlreadyAvailable).
		WithContext("room", room)
}

// Input errors

func InvalidInput(field, reason string) *HotelError {
	return New(CategoryValidation, SeverityWarning, reason).
		WithCode(CodeInvalidInput).
		WithContext("field", field)
}

// Storage errors

func StorageCorrupt(location string, cause error) *HotelError {
	return Wrap(cause, CategoryStorage, SeverityFatal, "stored data cannot be read").
		WithCode(CodeStorageCorrupt).
		WithContext("location", location)
}

func StorageWriteFailed(location string, cause error) *HotelError {
	return Wrap(cause, CategoryStorage, SeverityWarning, "failed to save data").
		WithCode(CodeStorageWriteFailed).
		WithContext("location", location)
}

// Config errors

func ConfigInvalid(path string, cause error) *HotelError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "invalid configuration").
		WithCode(CodeConfigInvalid).
		WithContext("path", path)
}

// Runtime errors

func RuntimeFailure(operation string, cause error) *HotelError {
	return Wrap(cause, CategoryRuntime, SeverityFatal, operation+" failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *HotelError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}

package errors

import "errors"

// Convenience constructors for common error patterns

// Page lookup errors

func PageNotFound(path string) *FlatPagesError {
	return Wrap(ErrPageNotFound, CategoryPages, SeverityWarning, "no page at this path").
		WithContext("path", path)
}

// Parse-time errors. These abort the population pass that hit them.

func DecodeFailed(file, encoding string, cause error) *FlatPagesError {
	return Wrap(errors.Join(ErrBadEncoding, cause), CategoryEncoding, SeverityError, "content decode failed").
		WithContext("file", file).
		WithContext("encoding", encoding)
}

func MetadataInvalid(file string, cause error) *FlatPagesError {
	return Wrap(errors.Join(ErrBadMetadata, cause), CategoryMetadata, SeverityError, "metadata parse failed").
		WithContext("file", file)
}

func MissingMetadataKey(path, key string) *FlatPagesError {
	return Wrap(ErrMissingMetadataKey, CategoryMetadata, SeverityWarning, "metadata key missing").
		WithContext("path", path).
		WithContext("key", key)
}

func UnknownRenderer(file, hint string) *FlatPagesError {
	return New(CategoryMetadata, SeverityError, "unknown renderer hint").
		WithContext("file", file).
		WithContext("renderer", hint)
}

// Filesystem errors

func WalkFailed(root string, cause error) *FlatPagesError {
	return Wrap(cause, CategoryFileSystem, SeverityError, "page directory walk failed").
		WithContext("root", root)
}

func ReadFailed(file string, cause error) *FlatPagesError {
	return Wrap(cause, CategoryFileSystem, SeverityError, "page file read failed").
		WithContext("file", file)
}

// Config errors

func ConfigInvalid(field, reason string) *FlatPagesError {
	return New(CategoryConfig, SeverityFatal, "invalid configuration").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Render errors

func RenderFailed(path string, cause error) *FlatPagesError {
	return Wrap(cause, CategoryRender, SeverityError, "page render failed").
		WithContext("path", path)
}

func TemplateUnavailable(path, template string) *FlatPagesError {
	return New(CategoryRender, SeverityError, "page names a template but no template environment is configured").
		WithContext("path", path).
		WithContext("template", template)
}

package blog

import (
	"strings"
	"unicode/utf8"
)

// Validation limits, counted in characters.
const (
	maxTitleLen        = 200
	maxExcerptLen      = 500
	maxCategoryNameLen = 100
	maxDescriptionLen  = 500

	defaultListLimit = 50
	maxListLimit     = 100
)

// validateTitle checks a post title.
func validateTitle(title string) *Error {
	if strings.TrimSpace(title) == "" {
		return validationError("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return validationError("title is too long (max 200 characters)")
	}
	return nil
}

// validateContent checks a post body. Any non-empty body is accepted,
// whitespace included.
func validateContent(content string) *Error {
	if content == "" {
		return validationError("content is required")
	}
	return nil
}

// validateExcerpt checks an optional post excerpt.
func validateExcerpt(excerpt *string) *Error {
	if excerpt != nil && utf8.RuneCountInString(*excerpt) > maxExcerptLen {
		return validationError("excerpt is too long (max 500 characters)")
	}
	return nil
}

// validateCategoryName checks a category name.
func validateCategoryName(name string) *Error {
	if strings.TrimSpace(name) == "" {
		return validationError("name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return validationError("name is too long (max 100 characters)")
	}
	return nil
}

// validateDescription checks an optional category description.
func validateDescription(description *string) *Error {
	if description != nil && utf8.RuneCountInString(*description) > maxDescriptionLen {
		return validationError("description is too long (max 500 characters)")
	}
	return nil
}

// normalizePage applies the listing defaults and bounds. A nil limit
// means "use the default"; an explicit one must be in [1, 100].
func normalizePage(limitIn *int, offset int) (int, int, *Error) {
	limit := defaultListLimit
	if limitIn != nil {
		limit = *limitIn
	}
	if limit < 1 || limit > maxListLimit {
		return 0, 0, validationError("limit must be between 1 and 100")
	}
	if offset < 0 {
		return 0, 0, validationError("offset must not be negative")
	}
	return limit, offset, nil
}

// firstError returns the first non-nil validation failure.
func firstError(errs ...*Error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// optionalText maps an empty string to nil so blank optional fields are
// stored as NULL.
func optionalText(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

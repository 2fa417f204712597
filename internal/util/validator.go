package util

import (
	"classroom_backend/internal/model"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	notBlankTag     = "notblank"
	roleTag         = "role"
	resourceTypeTag = "resource_type"
	answerRangeTag  = "answer_range"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// 使用 JSON tag 作为错误字段名
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = Validate.RegisterValidation(roleTag, roleValidation)
	_ = Validate.RegisterValidation(resourceTypeTag, resourceTypeValidation)
	Validate.RegisterStructValidation(questionStructValidation, model.Question{})

	registerCustomTranslations(map[string]string{
		notBlankTag:     "{0} cannot be blank",
		roleTag:         "{0} must be one of student, teacher, admin",
		resourceTypeTag: "{0} must be one of material, module, book",
		answerRangeTag:  "{0} must index one of the choices",
	})
}

func registerCustomTranslations(messages map[string]string) {
	for tag, text := range messages {
		text := text
		_ = Validate.RegisterTranslation(tag, Translator,
			func(ut.Translator) error { return nil },
			func(_ ut.Translator, fe validator.FieldError) string {
				return strings.Replace(text, "{0}", fe.Field(), 1)
			})
	}
}

// ValidationMessages flattens validation errors to field -> message. Keys are JSON paths
// without the top-level struct name, e.g. "email" or "[0].choices".
func ValidationMessages(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		key := fe.Namespace()
		if i := strings.IndexByte(key, '.'); i >= 0 && !strings.HasPrefix(key, "[") {
			key = key[i+1:]
		}
		out[key] = fe.Translate(Translator)
	}
	return out
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func roleValidation(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case model.UserRole:
		return v.Valid()
	case string:
		return model.UserRole(v).Valid()
	}
	return false
}

func resourceTypeValidation(fl validator.FieldLevel) bool {
	switch model.ResourceType(fl.Field().String()) {
	case model.Material, model.Module, model.Book:
		return true
	}
	return false
}

// questionStructValidation checks that the answer indexes an existing choice.
func questionStructValidation(sl validator.StructLevel) {
	q, ok := sl.Current().Interface().(model.Question)
	if !ok {
		return
	}
	if q.Answer < 0 || q.Answer >= len(q.Choices) {
		sl.ReportError(q.Answer, "answer", "Answer", answerRangeTag, "")
	}
}

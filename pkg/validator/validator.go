// Package validator 封装 go-playground/validator，按语言翻译校验错误
package validator

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/haierkeys/fast-note-client/pkg/code"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	validatorV10 "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// TagName 结构体上使用的校验标签名，沿用 binding
const TagName = "binding"

// Validator 带翻译器的校验器
type Validator struct {
	validate *validatorV10.Validate
	uni      *ut.UniversalTranslator
}

// New builds a validator whose messages are available in English and Chinese
// New 创建校验器，错误消息支持英文和中文
func New() (*Validator, error) {
	validate := validatorV10.New()
	validate.SetTagName(TagName)

	// 错误消息中使用 json 字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	uni := ut.New(en.New(), en.New(), zh.New())

	zhTran, _ := uni.GetTranslator("zh")
	enTran, _ := uni.GetTranslator("en")

	if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
		return nil, err
	}
	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, uni: uni}, nil
}

// translator 根据 code 包的语言键选择翻译器
func (v *Validator) translator(lang string) ut.Translator {
	key := "en"
	if code.NormalizeLang(lang) == "zh_cn" {
		key = "zh"
	}
	trans, _ := v.uni.GetTranslator(key)
	return trans
}

// Validate returns nil or code.ErrorInvalidParams carrying the translated messages, sorted
// Validate 校验通过返回 nil，否则返回带翻译后错误详情（已排序）的 code.ErrorInvalidParams
func (v *Validator) Validate(lang string, s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var errs validatorV10.ValidationErrors
	if !errors.As(err, &errs) {
		return code.ErrorInvalidParams.WithDetails(err.Error())
	}

	trans := v.translator(lang)
	details := make([]string, 0, len(errs))
	for _, msg := range errs.Translate(trans) {
		details = append(details, msg)
	}
	sort.Strings(details)
	return code.ErrorInvalidParams.WithDetails(details...)
}

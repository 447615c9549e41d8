package convert

import (
	"github.com/bytedance/sonic"
	"github.com/jinzhu/copier"
)

// StructAssign
// dst 目标结构体，src 源结构体
// 它会把src与dst的相同字段名的值，复制到dst中
func StructAssign(src any, dst any) error {
	return copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true})
}

// Overlay deep-copies base into a fresh T, then decodes patch's JSON on top of it.
// Every field present in patch replaces the base value, including empty slices and zero values.
// Overlay 先深拷贝 base 得到新的 T，再把 patch 的 JSON 解码覆盖上去
// patch 中出现的字段一律覆盖（空切片、零值也覆盖），base 本身不被修改
func Overlay[T any](base T, patch any) (T, error) {
	var out T
	if err := StructAssign(&base, &out); err != nil {
		return out, err
	}
	data, err := sonic.Marshal(patch)
	if err != nil {
		return out, err
	}
	if err := sonic.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}

package tools

import (
	"strconv"
	"strings"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/pkg/types"
)

const SOLDecimals = 9

// IsSPLTokenProgram 支持 Token v1（Tokenkeg...）和 Token-2022（Tokenz...）
func IsSPLTokenProgram(programId types.Pubkey) bool {
	return programId == consts.TokenProgram || programId == consts.TokenProgram2022
}

// FormatTokenAmount 按 mint 精度把最小单位数量格式化为十进制字符串，去掉小数尾部的 0
func FormatTokenAmount(amount uint64, decimals uint8) string {
	digits := strconv.FormatUint(amount, 10)
	if decimals == 0 {
		return digits
	}
	d := int(decimals)
	if len(digits) <= d {
		digits = strings.Repeat("0", d-len(digits)+1) + digits
	}
	whole, frac := digits[:len(digits)-d], strings.TrimRight(digits[len(digits)-d:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

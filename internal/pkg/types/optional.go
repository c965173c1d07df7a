package types

// OptionalPubkey 可选账户槽位：Absent 或 Present(address)
// 在组装指令前一次性确定，不通过哨兵地址推断
type OptionalPubkey struct {
	key     Pubkey
	present bool
}

func Present(p Pubkey) OptionalPubkey {
	return OptionalPubkey{key: p, present: true}
}

func Absent() OptionalPubkey {
	return OptionalPubkey{}
}

// OptionalFromPtr nil 视为 Absent
func OptionalFromPtr(p *Pubkey) OptionalPubkey {
	if p == nil {
		return Absent()
	}
	return Present(*p)
}

func (o OptionalPubkey) IsPresent() bool {
	return o.present
}

func (o OptionalPubkey) Get() (Pubkey, bool) {
	return o.key, o.present
}

// OrElse Absent 时返回 fallback（用于占位地址）
func (o OptionalPubkey) OrElse(fallback Pubkey) Pubkey {
	if o.present {
		return o.key
	}
	return fallback
}

func (o OptionalPubkey) String() string {
	if !o.present {
		return "<absent>"
	}
	return o.key.String()
}

// MarshalText Absent 输出空字符串
func (o OptionalPubkey) MarshalText() ([]byte, error) {
	if !o.present {
		return []byte{}, nil
	}
	return o.key.MarshalText()
}

package anchor

import (
	"bytes"
	"crypto/sha256"
)

const DiscriminatorLen = 8

type Discriminator [DiscriminatorLen]byte

// InstructionDiscriminator sha256("global:<snake_name>")[:8]
func InstructionDiscriminator(name string) Discriminator {
	return hashPrefix("global:" + name)
}

// AccountDiscriminator sha256("account:<TypeName>")[:8]
func AccountDiscriminator(name string) Discriminator {
	return hashPrefix("account:" + name)
}

func (d Discriminator) Bytes() []byte {
	return d[:]
}

// Matches 判断数据是否以该 discriminator 开头
func (d Discriminator) Matches(data []byte) bool {
	return len(data) >= DiscriminatorLen && bytes.Equal(data[:DiscriminatorLen], d[:])
}

func hashPrefix(preimage string) Discriminator {
	sum := sha256.Sum256([]byte(preimage))
	var d Discriminator
	copy(d[:], sum[:DiscriminatorLen])
	return d
}

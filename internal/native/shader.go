// Package native creates HAL objects for compiled programs.
package native

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic = 0x07230203

// ErrInvalidSPIRV is returned for byte slices that are not a SPIR-V module.
var ErrInvalidSPIRV = errors.New("native: invalid SPIR-V")

// SPIRVWords converts a SPIR-V binary to the little-endian 32-bit words HAL
// shader modules take.
func SPIRVWords(spirvBytes []byte) ([]uint32, error) {
	if len(spirvBytes) < 4 || len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSPIRV, len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	if words[0] != SPIRVMagic {
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrInvalidSPIRV, words[0])
	}
	return words, nil
}

// CreateShaderModule creates a HAL shader module from SPIR-V code.
func CreateShaderModule(device hal.Device, label string, spirvCode []uint32) (hal.ShaderModule, error) {
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirvCode,
		},
	})
}

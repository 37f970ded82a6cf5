// Package codec implements the building blocks of the serialization protocol:
// typed binary records introduced by a TypeUID, and text property blocks used
// for parameter objects.
package codec

import (
	"errors"
	"fmt"

	"github.com/tfhego/tfhe/utils/buffer"
)

var (
	// ErrTypeUID is returned when a binary record does not start with the expected TypeUID.
	ErrTypeUID = errors.New("type uid mismatch")
	// ErrTypeTag is returned when a property block does not have the expected type tag.
	ErrTypeTag = errors.New("type tag mismatch")
	// ErrMalformed is returned when a property block or one of its properties cannot be parsed.
	ErrMalformed = errors.New("malformed property block")
)

// TypeUID is the little-endian int32 that prefixes every binary record.
type TypeUID int32

// Type identifiers of the binary records.
const (
	LweSampleUID     = TypeUID(42)
	LweKeyUID        = TypeUID(43)
	TLweSampleUID    = TypeUID(44)
	TLweSampleFFTUID = TypeUID(45)
	TLweKeyUID       = TypeUID(46)
	TGswSampleUID    = TypeUID(47)
	TGswSampleFFTUID = TypeUID(48)
	TGswKeyUID       = TypeUID(49)

	LweSampleLvl2UID  = TypeUID(62)
	TLweSampleLvl2UID = TypeUID(64)
	TGswSampleLvl2UID = TypeUID(67)
)

func (uid TypeUID) String() string {
	switch uid {
	case LweSampleUID:
		return "LWE_SAMPLE"
	case LweKeyUID:
		return "LWE_KEY"
	case TLweSampleUID:
		return "TLWE_SAMPLE"
	case TLweSampleFFTUID:
		return "TLWE_SAMPLE_FFT"
	case TLweKeyUID:
		return "TLWE_KEY"
	case TGswSampleUID:
		return "TGSW_SAMPLE"
	case TGswSampleFFTUID:
		return "TGSW_SAMPLE_FFT"
	case TGswKeyUID:
		return "TGSW_KEY"
	case LweSampleLvl2UID:
		return "LWE_SAMPLE_LVL2"
	case TLweSampleLvl2UID:
		return "TLWE_SAMPLE_LVL2"
	case TGswSampleLvl2UID:
		return "TGSW_SAMPLE_LVL2"
	default:
		return fmt.Sprintf("TypeUID(%d)", int32(uid))
	}
}

// WriteTypeUID writes uid on w.
func WriteTypeUID(w buffer.Writer, uid TypeUID) (n int64, err error) {
	return buffer.WriteAsUint32(w, uid)
}

// ReadTypeUID reads a TypeUID from r and returns an error wrapping ErrTypeUID
// if it is not want.
func ReadTypeUID(r buffer.Reader, want TypeUID) (n int64, err error) {

	var have TypeUID
	if n, err = buffer.ReadAsUint32(r, &have); err != nil {
		return n, fmt.Errorf("buffer.ReadAsUint32: %w", err)
	}

	if have != want {
		return n, fmt.Errorf("%w: expected %s but read %s", ErrTypeUID, want, have)
	}

	return
}

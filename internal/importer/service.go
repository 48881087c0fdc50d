package importer

import (
	"fmt"
	"io"
)

type Service struct {
	pos Parser
}

func NewService() *Service {
	return &Service{
		pos: NewPOSParser(),
	}
}

func (s *Service) Parse(format Format, r io.Reader) ([]Draft, error) {
	switch format {
	case FormatPOS:
		return s.pos.Parse(r)
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}
}

package vault

import (
	"context"

	"github.com/agentstation/apexvault/pkg/reconcile"
	"github.com/agentstation/apexvault/pkg/transfer"
)

// Import decodes an export file or bare record array and applies it with
// mode. A payload that cannot be decoded returns an error wrapping
// errors.ErrInvalidFormat and leaves the vault unchanged.
func (s *Store) Import(ctx context.Context, data []byte, mode reconcile.Mode) (*reconcile.Result, error) {
	log := s.log(ctx, "import")

	imp, err := transfer.DecodeImport(data)
	if err != nil {
		log.Warn().Err(err).Msg("Import rejected")
		return nil, err
	}
	if imp.Dropped > 0 {
		log.Debug().Int("dropped", imp.Dropped).Msg("Skipped incomplete records")
	}

	return s.apply(ctx, mode, imp.Records)
}

// Export renders the vault as an export envelope
func (s *Store) Export(_ context.Context, opts ...transfer.Option) ([]byte, error) {
	return transfer.Export(s.Records(), opts...)
}

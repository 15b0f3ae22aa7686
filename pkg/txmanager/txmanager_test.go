package txmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	errExec := errors.New("storage: exec query error")
	errInternal := errors.New("usecase: internal error")

	serialization := &pq.Error{Code: "40001"}
	deadlock := &pq.Error{Code: "40P01"}
	uniqueViolation := &pq.Error{Code: "23505"}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "raw serialization failure", err: serialization, want: true},
		{name: "raw deadlock", err: deadlock, want: true},
		{name: "raw unique violation", err: uniqueViolation, want: false},
		{
			// Ошибка уровня statement, обёрнутая репозиторием: именно так
			// конфликт сериализации приходит из FOR UPDATE выборки
			name: "repository wrap",
			err:  fmt.Errorf("%w: GetWithFilter - execute query: %w", errExec, serialization),
			want: true,
		},
		{
			// Репозиторная обёртка, поверх которой ещё и usecase-обёртка
			// внутри транзакционного колбэка
			name: "repository and usecase wrap",
			err: fmt.Errorf("%w: failed to get appointments: %w", errInternal,
				fmt.Errorf("%w: GetWithFilter - execute query: %w", errExec, serialization)),
			want: true,
		},
		{
			name: "commit wrap",
			err:  fmt.Errorf("txmanager: commit transaction: %w", serialization),
			want: true,
		},
		{
			name: "wrapped non-retriable pq error",
			err:  fmt.Errorf("%w: Create - execute insert: %w", errExec, uniqueViolation),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSerializationFailure(tt.err))
		})
	}
}

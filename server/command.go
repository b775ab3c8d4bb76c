package server

import (
	"context"
	"fmt"

	"github.com/pgshim/pgshim/internal/buffer"
	"github.com/pgshim/pgshim/internal/stream"
	"github.com/pgshim/pgshim/internal/types"
	"github.com/pgshim/pgshim/server/prepared"
)

// dispatch routes one already-read message tag to its handler.
func (s *Session) dispatch(ctx context.Context, tag types.ClientMessage) error {
	switch tag {
	case types.ClientSimpleQuery:
		return s.handleSimpleQuery(ctx)
	case types.ClientParse:
		return s.handleParse(ctx)
	case types.ClientBind:
		return s.handleBind(ctx)
	case types.ClientDescribe:
		return s.handleDescribe(ctx)
	case types.ClientExecute:
		return s.handleExecute(ctx)
	case types.ClientClose:
		return s.handleClose(ctx)
	case types.ClientSync:
		return s.stream.WriteReady(stream.TxIdle)
	case types.ClientFlush:
		// Every write already flushes at message boundaries; there is
		// nothing buffered to push out early.
		return nil
	default:
		return stream.ErrUnsupportedCommand()
	}
}

func (s *Session) handleParse(ctx context.Context) error {
	msg, err := s.stream.ReadParse()
	if err != nil {
		return err
	}

	s.registry.AddStatement(msg.Statement, &prepared.Statement{
		Query:     msg.Query,
		ParamOIDs: msg.ParamOIDs,
	})

	return s.stream.WriteParseComplete()
}

func (s *Session) handleBind(ctx context.Context) error {
	msg, err := s.stream.ReadBind()
	if err != nil {
		return err
	}

	if _, ok := s.registry.Statement(msg.Statement); !ok {
		return unknownStatementError(msg.Statement)
	}

	s.registry.Bind(msg.Portal, &prepared.Portal{
		Statement:     msg.Statement,
		ParamFormats:  msg.ParamFormats,
		Params:        msg.Params,
		ResultFormats: msg.ResultFormats,
	})

	return s.stream.WriteBindComplete()
}

func (s *Session) handleDescribe(ctx context.Context) error {
	msg, err := s.stream.ReadDescribe()
	if err != nil {
		return err
	}

	switch msg.Kind {
	case buffer.DescribeStatement:
		stmt, ok := s.registry.Statement(msg.Name)
		if !ok {
			return unknownStatementError(msg.Name)
		}

		result, err := ExecuteQuery(ctx, s.srv.hooks, s.srv.ignoreMissingStatementTypes, stmt.Query)
		if err != nil {
			return err
		}

		return s.writeDescribeResult(result)

	case buffer.DescribePortal:
		portal, ok := s.registry.Portal(msg.Name)
		if !ok {
			return unknownPortalError(msg.Name)
		}

		stmt, ok := s.registry.Statement(portal.Statement)
		if !ok {
			return unknownStatementError(portal.Statement)
		}

		result, err := computePortalResult(ctx, s.srv.hooks, s.srv.ignoreMissingStatementTypes, stmt, portal, s.srv.surfaceExecuteErrors)
		if err != nil {
			return err
		}

		return s.writeDescribeResult(result)

	default:
		return protocolViolationError()
	}
}

func (s *Session) writeDescribeResult(result *prepared.Result) error {
	if result.PassThrough || result.Empty || result.Failed || len(result.Columns) == 0 {
		return s.stream.WriteNoData()
	}
	return s.stream.WriteRowDescription(result.Columns)
}

func (s *Session) handleExecute(ctx context.Context) error {
	msg, err := s.stream.ReadExecute()
	if err != nil {
		return err
	}

	portal, ok := s.registry.Portal(msg.Portal)
	if !ok {
		return unknownPortalError(msg.Portal)
	}

	stmt, ok := s.registry.Statement(portal.Statement)
	if !ok {
		return unknownStatementError(portal.Statement)
	}

	result, err := computePortalResult(ctx, s.srv.hooks, s.srv.ignoreMissingStatementTypes, stmt, portal, s.srv.surfaceExecuteErrors)
	if err != nil {
		return err
	}

	return s.writeExecuteResult(result, msg.MaxRows)
}

// writeExecuteResult emits the rows of an extended-protocol Execute.
// maxRows of 0 means unlimited; a nonzero cap simply truncates the rows
// sent in this single Execute, since this server does not implement
// PortalSuspended continuation.
func (s *Session) writeExecuteResult(result *prepared.Result, maxRows int32) error {
	switch {
	case result.Empty, result.Failed:
		return s.stream.WriteEmptyQueryResponse()
	case result.PassThrough:
		return s.stream.WriteCommandComplete(result.CommandTag)
	}

	rows := result.Rows
	if maxRows > 0 && int(maxRows) < len(rows) {
		rows = rows[:maxRows]
	}

	for _, row := range rows {
		if err := s.stream.WriteDataRow(row); err != nil {
			return err
		}
	}

	return s.stream.WriteCommandComplete(fmt.Sprintf("%s %d", result.CommandTag, len(rows)))
}

func (s *Session) handleClose(ctx context.Context) error {
	msg, err := s.stream.ReadClose()
	if err != nil {
		return err
	}

	switch msg.Kind {
	case buffer.DescribeStatement:
		if !s.registry.CloseStatement(msg.Name) {
			return unknownStatementError(msg.Name)
		}
	case buffer.DescribePortal:
		if !s.registry.ClosePortal(msg.Name) {
			return unknownPortalError(msg.Name)
		}
	}

	return s.stream.WriteCloseComplete()
}

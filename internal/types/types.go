// Package types defines the wire-level message tag bytes of the PostgreSQL
// frontend/backend protocol, version 3.
// http://www.postgresql.org/docs/9.4/static/protocol-message-formats.html
package types

// ClientMessage represents a client pgwire message tag.
type ClientMessage byte

// ServerMessage represents a server pgwire message tag.
type ServerMessage byte

const (
	ClientBind        ClientMessage = 'B'
	ClientClose       ClientMessage = 'C'
	ClientDescribe    ClientMessage = 'D'
	ClientExecute     ClientMessage = 'E'
	ClientFlush       ClientMessage = 'H'
	ClientParse       ClientMessage = 'P'
	ClientPassword    ClientMessage = 'p'
	ClientSimpleQuery ClientMessage = 'Q'
	ClientSync        ClientMessage = 'S'
	ClientTerminate   ClientMessage = 'X'

	ServerAuth            ServerMessage = 'R'
	ServerBindComplete    ServerMessage = '2'
	ServerCommandComplete ServerMessage = 'C'
	ServerCloseComplete   ServerMessage = '3'
	ServerDataRow         ServerMessage = 'D'
	ServerEmptyQuery      ServerMessage = 'I'
	ServerErrorResponse   ServerMessage = 'E'
	ServerNoData          ServerMessage = 'n'
	ServerParameterStatus ServerMessage = 'S'
	ServerParseComplete   ServerMessage = '1'
	ServerReady           ServerMessage = 'Z'
	ServerRowDescription  ServerMessage = 'T'
)

func (m ClientMessage) String() string {
	switch m {
	case ClientBind:
		return "Bind"
	case ClientClose:
		return "Close"
	case ClientDescribe:
		return "Describe"
	case ClientExecute:
		return "Execute"
	case ClientFlush:
		return "Flush"
	case ClientParse:
		return "Parse"
	case ClientPassword:
		return "Password"
	case ClientSimpleQuery:
		return "SimpleQuery"
	case ClientSync:
		return "Sync"
	case ClientTerminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}

func (m ServerMessage) String() string {
	switch m {
	case ServerAuth:
		return "Auth"
	case ServerBindComplete:
		return "BindComplete"
	case ServerCommandComplete:
		return "CommandComplete"
	case ServerCloseComplete:
		return "CloseComplete"
	case ServerDataRow:
		return "DataRow"
	case ServerEmptyQuery:
		return "EmptyQuery"
	case ServerErrorResponse:
		return "ErrorResponse"
	case ServerNoData:
		return "NoData"
	case ServerParameterStatus:
		return "ParameterStatus"
	case ServerParseComplete:
		return "ParseComplete"
	case ServerReady:
		return "Ready"
	case ServerRowDescription:
		return "RowDescription"
	default:
		return "Unknown"
	}
}

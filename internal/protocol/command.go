package protocol

// Command is a named verb from the closed vocabulary.
type Command uint8

// Named commands. Add new entries here and in commandNames.
const (
	CmdInvalid Command = iota
	CmdAdmin
	CmdAway
	CmdCap
	CmdConnect
	CmdDie
	CmdError
	CmdInfo
	CmdInvite
	CmdIsOn
	CmdJoin
	CmdKick
	CmdKill
	CmdLinks
	CmdList
	CmdLusers
	CmdMode
	CmdMotd
	CmdNames
	CmdNick
	CmdNotice
	CmdOper
	CmdPart
	CmdPass
	CmdPing
	CmdPong
	CmdPrivmsg
	CmdQuit
	CmdRehash
	CmdRestart
	CmdService
	CmdServlist
	CmdSquery
	CmdSquit
	CmdStats
	CmdSummon
	CmdTime
	CmdTopic
	CmdTrace
	CmdUser
	CmdUserhost
	CmdUsers
	CmdVersion
	CmdWallops
	CmdWho
	CmdWhois
	CmdWhowas

	commandCount
)

var commandNames = [commandCount]string{
	CmdAdmin:    "ADMIN",
	CmdAway:     "AWAY",
	CmdCap:      "CAP",
	CmdConnect:  "CONNECT",
	CmdDie:      "DIE",
	CmdError:    "ERROR",
	CmdInfo:     "INFO",
	CmdInvite:   "INVITE",
	CmdIsOn:     "ISON",
	CmdJoin:     "JOIN",
	CmdKick:     "KICK",
	CmdKill:     "KILL",
	CmdLinks:    "LINKS",
	CmdList:     "LIST",
	CmdLusers:   "LUSERS",
	CmdMode:     "MODE",
	CmdMotd:     "MOTD",
	CmdNames:    "NAMES",
	CmdNick:     "NICK",
	CmdNotice:   "NOTICE",
	CmdOper:     "OPER",
	CmdPart:     "PART",
	CmdPass:     "PASS",
	CmdPing:     "PING",
	CmdPong:     "PONG",
	CmdPrivmsg:  "PRIVMSG",
	CmdQuit:     "QUIT",
	CmdRehash:   "REHASH",
	CmdRestart:  "RESTART",
	CmdService:  "SERVICE",
	CmdServlist: "SERVLIST",
	CmdSquery:   "SQUERY",
	CmdSquit:    "SQUIT",
	CmdStats:    "STATS",
	CmdSummon:   "SUMMON",
	CmdTime:     "TIME",
	CmdTopic:    "TOPIC",
	CmdTrace:    "TRACE",
	CmdUser:     "USER",
	CmdUserhost: "USERHOST",
	CmdUsers:    "USERS",
	CmdVersion:  "VERSION",
	CmdWallops:  "WALLOPS",
	CmdWho:      "WHO",
	CmdWhois:    "WHOIS",
	CmdWhowas:   "WHOWAS",
}

var commandsByName = func() map[string]Command {
	out := make(map[string]Command, len(commandNames))
	for cmd, name := range commandNames {
		if name == "" {
			continue
		}
		out[name] = Command(cmd)
	}
	return out
}()

// String returns the canonical wire name, or "" for an unknown value.
func (c Command) String() string {
	if c >= commandCount {
		return ""
	}
	return commandNames[c]
}

// Valid reports whether c is a member of the vocabulary.
func (c Command) Valid() bool {
	return c != CmdInvalid && c < commandCount
}

// LookupCommand matches name against the vocabulary. The match is exact and
// case-sensitive.
func LookupCommand(name string) (Command, bool) {
	cmd, ok := commandsByName[name]
	return cmd, ok
}

// Commands returns every named command in declaration order.
func Commands() []Command {
	out := make([]Command, 0, commandCount-1)
	for c := CmdInvalid + 1; c < commandCount; c++ {
		out = append(out, c)
	}
	return out
}

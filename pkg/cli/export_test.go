package cli

var (
	RunChat         = runChat
	PrintFriends    = printFriends
	PrintTranscript = printTranscript
)

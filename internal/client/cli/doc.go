// Package cli implements the jarvault command line: one subcommand per API
// operation, printing results to stdout and errors to stderr.
//
// Commands
//
//	upload <file>...         upload one file, or several as a bulk upload
//	list                     list stored jars, newest first
//	get <id>                 show one record
//	download <id> [dest]     save the file to dest (file or directory)
//	delete [-p pw] <id>      delete a record and its file
//
// The delete password is taken from -p, then $JARVAULT_PASSWORD, then an
// interactive prompt when stdin is a terminal.
package cli

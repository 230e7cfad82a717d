// Package messages renders everything the bot says: message texts, reply
// keyboards, inline actions and the callback data carried by those actions.
//
// Texts are Uzbek and mostly HTML. User-supplied values (names, addresses) are
// escaped before they are embedded in an HTML message.
package messages
